package http

import (
	"net/http"

	"github.com/liftlog/accounts/pkg/accountsdk"
	"github.com/liftlog/accounts/pkg/httpx"
	"github.com/liftlog/accounts/pkg/passpolicy"
)

// PasswordPolicyHandler godoc
//
//	@Summary		Password Policy Endpoint
//	@Description	Expose the active password policy so clients can validate before submitting.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	accountsdk.PolicyResponse	"policy"
//	@Router			/api/auth/password-policy [get].
func PasswordPolicyHandler(policy passpolicy.Policy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, accountsdk.PolicyResponse{Policy: policy})
	}
}

package httperr

import (
	"github.com/gin-gonic/gin"
)

// Response is the wire shape for every non-2xx reply. PaymentID is set only
// on the duplicate-submission path so the client can show the prior
// confirmation.
type Response struct {
	Status    int    `json:"-"`
	Error     string `json:"error"`
	PaymentID string `json:"paymentId,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string) {
	abort(c, Response{Status: status, Error: msg}, err)
}

// AbortDuplicate is the 400 variant carrying the earlier charge's payment id.
func AbortDuplicate(c *gin.Context, status int, err error, msg, paymentID string) {
	abort(c, Response{Status: status, Error: msg, PaymentID: paymentID}, err)
}

func abort(c *gin.Context, resp Response, err error) {
	if err == nil {
		panic("httperr: err cannot be nil")
	}

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(resp.Status, resp)
}

package api

import (
	"net/http"

	resdto "unified-checkout/internal/handler/dto/response"
	"unified-checkout/internal/handler/httperr"
	"unified-checkout/internal/infra"
	"unified-checkout/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionHandler struct {
	sessionQueries queries.SessionQueries
}

func NewSessionHandler(sessionQueries queries.SessionQueries) *SessionHandler {
	return &SessionHandler{
		sessionQueries: sessionQueries,
	}
}

// @Summary Get checkout session
// @Description Get one checkout attempt for reconciliation
// @Tags checkout
// @Produce json
// @Param id path string true "Checkout session ID"
// @Success 200 {object} resdto.SessionResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /checkout/sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid session ID format")
		return
	}

	view, err := h.sessionQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Checkout session not found")
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, resdto.FromSessionView(view))
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/playcrest/playcrest-backend/internal/services"
	"github.com/playcrest/playcrest-backend/internal/types"
)

type CardsHandler struct {
	cards *services.CardArtService
}

func NewCardsHandler(cards *services.CardArtService) *CardsHandler {
	return &CardsHandler{cards: cards}
}

type renderCardRequest struct {
	Name           string `json:"name" binding:"required"`
	JerseyNumber   string `json:"jersey_number"`
	SignatureColor string `json:"signature_color"`
}

// POST /api/cards/render?size=full|thumb
func (h *CardsHandler) RenderCard(c *gin.Context) {
	var req renderCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	identity := &types.AthleteIdentity{
		ID:           uuid.New(),
		Name:         req.Name,
		JerseyNumber: req.JerseyNumber,
		Visual:       types.VisualIdentity{SignatureColor: req.SignatureColor},
	}

	buf, err := h.cards.RenderIdentityCard(identity)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "card_render_failed", err)
		return
	}

	if c.Query("size") == "thumb" {
		thumb, err := h.cards.RenderThumbnail(buf.Bytes())
		if err != nil {
			RespondError(c, http.StatusInternalServerError, "thumbnail_render_failed", err)
			return
		}
		c.Data(http.StatusOK, "image/png", thumb.Bytes())
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

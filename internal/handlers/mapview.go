package handlers

import (
	"context"
	"net/http"

	"cep-locator/internal/models"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// MapBuilder é implementado por services.MapService
type MapBuilder interface {
	Render(ctx context.Context, req models.MapRequest) (*models.MapView, error)
	MoveMarker(ctx context.Context, req models.MarkerMoveRequest) (*models.MarkerMove, error)
}

// HandleMap geocodifica o endereço e devolve a visualização do mapa
func HandleMap(svc MapBuilder) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := startSpan(c, "handle-map")
		defer span.End()

		var req models.MapRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, span, bindingError(err))
			return
		}
		span.SetAttributes(attribute.String("address", req.Address))

		view, err := svc.Render(ctx, req)
		if err != nil {
			respondError(c, span, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// HandleMarkerMove recebe a posição final do marcador arrastado
func HandleMarkerMove(svc MapBuilder) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := startSpan(c, "handle-marker-move")
		defer span.End()

		var req models.MarkerMoveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, span, bindingError(err))
			return
		}

		move, err := svc.MoveMarker(ctx, req)
		if err != nil {
			respondError(c, span, err)
			return
		}
		c.JSON(http.StatusOK, move)
	}
}

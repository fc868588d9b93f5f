package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cep-locator/internal/apperr"
	"cep-locator/internal/client"
	"cep-locator/internal/models"
	"cep-locator/internal/states"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// AddressLookup é implementado por services.AddressService
type AddressLookup interface {
	LookupCEP(ctx context.Context, cep string) (*models.Address, error)
	SearchStreet(ctx context.Context, uf, street string) ([]models.Address, error)
	Search(ctx context.Context, req models.SearchRequest) ([]models.Address, error)
}

// MapRenderer é implementado por client.MapClient
type MapRenderer interface {
	Render(ctx context.Context, req models.MapRequest) (*models.MapView, int, error)
}

// HandleHealthCheck verifica se o serviço está ativo
func HandleHealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleStates lista os estados disponíveis no formulário
func HandleStates(c *gin.Context) {
	c.JSON(http.StatusOK, states.All())
}

// HandleCEPLookup busca um endereço pelo CEP informado no caminho
func HandleCEPLookup(svc AddressLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := startSpan(c, "handle-cep-lookup")
		defer span.End()

		cep := c.Param("cep")
		span.SetAttributes(attribute.String("cep", cep))

		addr, err := svc.LookupCEP(ctx, cep)
		if err != nil {
			respondError(c, span, err)
			return
		}
		c.JSON(http.StatusOK, searchResponse([]models.Address{*addr}))
	}
}

// HandleAddressSearch busca por UF + logradouro na query string
func HandleAddressSearch(svc AddressLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := startSpan(c, "handle-address-search")
		defer span.End()

		var q models.AddressQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			respondError(c, span, bindingError(err))
			return
		}
		span.SetAttributes(attribute.String("uf", q.UF), attribute.String("street", q.Street))

		results, err := svc.SearchStreet(ctx, q.UF, q.Street)
		if err != nil {
			respondError(c, span, err)
			return
		}
		c.JSON(http.StatusOK, searchResponse(results))
	}
}

// HandleSearch recebe o formulário completo e despacha conforme o modo
func HandleSearch(svc AddressLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := startSpan(c, "handle-search")
		defer span.End()

		var req models.SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, span, bindingError(err))
			return
		}
		span.SetAttributes(attribute.String("mode", req.Mode))

		results, err := svc.Search(ctx, req)
		if err != nil {
			respondError(c, span, err)
			return
		}
		c.JSON(http.StatusOK, searchResponse(results))
	}
}

// HandleSelect encaminha o endereço escolhido para o serviço de mapa
func HandleSelect(maps MapRenderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := startSpan(c, "handle-select")
		defer span.End()

		var req models.SelectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, span, bindingError(err))
			return
		}

		addr := req.Address
		if addr.CEP == "" && addr.Logradouro == "" && addr.Localidade == "" {
			respondError(c, span, apperr.Validation(msgAddressRequired))
			return
		}
		mapReq := models.MapRequest{
			Address:   addr.Label(),
			Data:      &addr,
			Draggable: req.Draggable,
		}
		span.SetAttributes(attribute.String("address", mapReq.Address))

		view, _, err := maps.Render(ctx, mapReq)
		if err != nil {
			var upstream *client.UpstreamError
			if !errors.As(err, &upstream) {
				err = apperr.Unavailable(msgMapServiceUnavailable, err)
			}
			respondError(c, span, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func searchResponse(results []models.Address) models.SearchResponse {
	title := fmt.Sprintf("%d addresses found", len(results))
	if len(results) == 1 {
		title = "1 address found"
	}
	return models.SearchResponse{Count: len(results), Title: title, Results: results}
}

package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"cep-locator/internal/apperr"
	"cep-locator/internal/client"
	"cep-locator/internal/models"
	"cep-locator/internal/services"
	"cep-locator/internal/states"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	msgInvalidRequest        = "invalid request format"
	msgInternal              = "internal error"
	msgMapServiceUnavailable = "map service unavailable"
	msgAddressRequired       = "address is required"
)

var registerOnce sync.Once

// RegisterValidators registra a regra "uf" no validador usado pelo gin
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		err := v.RegisterValidation("uf", func(fl validator.FieldLevel) bool {
			return states.Valid(fl.Field().String())
		})
		if err != nil {
			panic(fmt.Sprintf("registrar validação uf: %v", err))
		}
	})
}

// startSpan extrai o contexto de propagação dos cabeçalhos e abre o span do handler
func startSpan(c *gin.Context, name string) (context.Context, trace.Span) {
	ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
	return otel.Tracer("cep-locator/handlers").Start(ctx, name)
}

// respondError escolhe o status a partir do tipo do erro
func respondError(c *gin.Context, span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	_ = c.Error(err)

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus(), models.ErrorResponse{Error: appErr.Message, Details: appErr.Details})
		return
	}

	var upstream *client.UpstreamError
	if errors.As(err, &upstream) {
		status := upstream.Status
		if status >= http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		c.JSON(status, models.ErrorResponse{Error: upstream.Message, Details: upstream.Details})
		return
	}

	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: msgInternal})
}

// bindingError traduz erros de binding/validação em mensagens do domínio
func bindingError(err error) *apperr.Error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation(msgInvalidRequest)
	}
	for _, fe := range verrs {
		switch fe.Field() {
		case "UF":
			return apperr.Validation(services.MsgStateRequired)
		case "Street":
			return apperr.Validation(services.MsgStreetTooShort)
		case "Mode":
			return apperr.Validation(services.MsgInvalidMode)
		case "Address":
			return apperr.Validation(msgAddressRequired)
		}
	}
	return apperr.Validation(msgInvalidRequest).WithDetails(err.Error())
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cep-locator/internal/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// UpstreamError carrega o status e a mensagem devolvidos pelo serviço de mapa
type UpstreamError struct {
	Status  int
	Message string
	Details interface{}
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("map service returned status %d: %s", e.Status, e.Message)
}

// MapClient é responsável pela comunicação com o serviço de mapa
type MapClient struct {
	baseURL string
	client  *http.Client
	tracer  trace.Tracer
}

// NewMapClient cria uma nova instância do cliente do serviço de mapa
func NewMapClient(baseURL string, httpClient *http.Client) *MapClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &MapClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
		tracer:  otel.GetTracerProvider().Tracer("map-client"),
	}
}

// Render envia o endereço escolhido para o serviço de mapa e devolve a visualização
func (c *MapClient) Render(ctx context.Context, request models.MapRequest) (*models.MapView, int, error) {
	ctx, span := c.tracer.Start(ctx, "call-map-service")
	defer span.End()

	span.SetAttributes(attribute.String("address", request.Address))

	reqBody, err := json.Marshal(request)
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/map", bytes.NewReader(reqBody))
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// Injetar o contexto de trace no cabeçalho da requisição
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, http.StatusBadGateway, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return nil, http.StatusBadGateway, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		upstream := &UpstreamError{Status: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		var errResp models.ErrorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			upstream.Message = errResp.Error
			upstream.Details = errResp.Details
		}
		span.SetStatus(codes.Error, upstream.Error())
		return nil, resp.StatusCode, upstream
	}

	var view models.MapView
	if err := json.Unmarshal(respBody, &view); err != nil {
		span.RecordError(err)
		return nil, http.StatusBadGateway, fmt.Errorf("error unmarshaling response: %w", err)
	}

	return &view, resp.StatusCode, nil
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"cep-locator/internal/apperr"
	"cep-locator/internal/cache"
	"cep-locator/internal/models"
	"cep-locator/internal/states"
	"cep-locator/internal/textnorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// Tempo máximo de cada consulta da busca por logradouro
	streetQueryTimeout = 5 * time.Second
	// Consultas simultâneas às cidades principais
	cityFanout = 4
	// Tamanho mínimo do logradouro aceito pelo ViaCEP
	minStreetLen = 3
)

// Mensagens de erro devolvidas ao cliente
const (
	MsgInvalidZipcode    = "invalid zipcode"
	MsgZipcodeNotFound   = "can not find zipcode"
	MsgStateRequired     = "state is required"
	MsgStreetTooShort    = "street must have at least 3 characters"
	MsgNoAddressFound    = "no address found"
	MsgInvalidMode       = "invalid search mode"
	MsgLookupUnavailable = "address lookup service unavailable"
)

// Dicas exibidas quando a busca por logradouro não encontra nada
var NoResultHints = []string{
	"check the street name",
	`add "Rua" or "Avenida"`,
	"select another state",
}

// AddressService consulta o ViaCEP por CEP ou por UF + logradouro
type AddressService struct {
	baseURL string
	client  *http.Client
	tracer  trace.Tracer
	cache   cache.Store
	log     *zap.Logger
}

// NewAddressService cria o serviço. store pode ser nil (sem cache).
func NewAddressService(baseURL string, client *http.Client, store cache.Store, log *zap.Logger) *AddressService {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if store == nil {
		store = cache.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AddressService{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		tracer:  otel.GetTracerProvider().Tracer("address-service"),
		cache:   store,
		log:     log,
	}
}

// Search despacha o formulário da tela inicial para a busca correta
func (s *AddressService) Search(ctx context.Context, req models.SearchRequest) ([]models.Address, error) {
	switch req.Mode {
	case "", models.ModeCEP:
		addr, err := s.LookupCEP(ctx, req.CEP)
		if err != nil {
			return nil, err
		}
		return []models.Address{*addr}, nil
	case models.ModeAddress:
		return s.SearchStreet(ctx, req.UF, req.Street)
	default:
		return nil, apperr.Validation(MsgInvalidMode)
	}
}

// LookupCEP busca o endereço de um CEP
func (s *AddressService) LookupCEP(ctx context.Context, cep string) (*models.Address, error) {
	ctx, span := s.tracer.Start(ctx, "lookup-cep")
	defer span.End()

	cep = textnorm.DigitsOnly(cep)
	span.SetAttributes(attribute.String("cep", cep))

	if len(cep) != 8 {
		return nil, apperr.Unprocessable(MsgInvalidZipcode)
	}

	var cached models.Address
	if ok := s.fromCache(ctx, "cep:"+cep, &cached); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return &cached, nil
	}

	var addr models.Address
	status, err := s.get(ctx, "/"+cep+"/json/", &addr)
	if err != nil {
		recordError(span, err)
		return nil, apperr.Unavailable(MsgLookupUnavailable, err).WithOp("LookupCEP")
	}
	if status != http.StatusOK || addr.Erro {
		s.log.Debug("CEP não encontrado", zap.String("cep", cep), zap.Int("status", status))
		err := apperr.NotFound(MsgZipcodeNotFound)
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.String("city", addr.Localidade))
	s.toCache(ctx, "cep:"+cep, addr)
	return &addr, nil
}

// SearchStreet busca um logradouro dentro de um estado.
// Ordem: capital; cidades principais; palpites com "rua", "avenida" e "av" na capital.
func (s *AddressService) SearchStreet(ctx context.Context, uf, street string) ([]models.Address, error) {
	ctx, span := s.tracer.Start(ctx, "search-street")
	defer span.End()

	uf = strings.ToUpper(strings.TrimSpace(uf))
	if !states.Valid(uf) {
		return nil, apperr.Validation(MsgStateRequired)
	}
	// o tamanho vale para o texto que de fato vai ao ViaCEP
	query := textnorm.NormalizeQuery(street)
	if utf8.RuneCountInString(query) < minStreetLen {
		return nil, apperr.Validation(MsgStreetTooShort)
	}
	capital := states.Capital(uf)
	span.SetAttributes(attribute.String("uf", uf), attribute.String("query", query))

	cacheKey := "street:" + uf + ":" + query
	var cached []models.Address
	if ok := s.fromCache(ctx, cacheKey, &cached); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached, nil
	}

	var attempts, failures int32
	try := func(ctx context.Context, city, q string) []models.Address {
		atomic.AddInt32(&attempts, 1)
		found, err := s.queryStreet(ctx, uf, city, q)
		if err != nil {
			atomic.AddInt32(&failures, 1)
			s.log.Warn("Erro ao buscar logradouro",
				zap.String("uf", uf), zap.String("city", city), zap.String("query", q), zap.Error(err))
			return nil
		}
		return found
	}

	// Primeiro tenta diretamente na capital do estado
	results := try(ctx, capital, query)
	stage := "capital"

	// Depois nas cidades principais, mantendo a ordem da lista
	if len(results) == 0 {
		stage = "principal-cities"
		cities := states.PrincipalCities(uf)
		perCity := make([][]models.Address, len(cities))

		var g errgroup.Group
		g.SetLimit(cityFanout)
		for i, city := range cities {
			i, city := i, city
			g.Go(func() error {
				perCity[i] = try(ctx, city, query)
				return nil
			})
		}
		_ = g.Wait()

		for _, found := range perCity {
			results = append(results, found...)
		}
	}

	// Por último, palpites com prefixo na capital; para no primeiro que encontrar
	if len(results) == 0 {
		stage = "guesses"
		for _, guess := range Guesses(query) {
			if found := try(ctx, capital, guess); len(found) > 0 {
				results = found
				break
			}
		}
	}

	span.SetAttributes(
		attribute.String("stage", stage),
		attribute.Int("attempts", int(attempts)),
		attribute.Int("failures", int(failures)),
	)

	if len(results) == 0 {
		if attempts > 0 && failures == attempts {
			err := apperr.Unavailable(MsgLookupUnavailable, fmt.Errorf("all %d queries failed", attempts)).WithOp("SearchStreet")
			recordError(span, err)
			return nil, err
		}
		return nil, apperr.NotFound(MsgNoAddressFound).WithDetails(map[string]interface{}{"hints": NoResultHints})
	}

	results = Dedupe(results)
	span.SetAttributes(attribute.Int("results", len(results)))
	s.toCache(ctx, cacheKey, results)
	return results, nil
}

// Guesses monta os palpites de prefixo para uma busca sem resultado.
// Se o prefixo já estiver presente, o palpite é a própria busca.
func Guesses(query string) []string {
	prefixes := []string{"rua", "avenida", "av"}
	out := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if strings.HasPrefix(query, p) {
			out = append(out, query)
			continue
		}
		out = append(out, p+" "+query)
	}
	return out
}

// Dedupe remove endereços repetidos pelo par CEP + logradouro, mantendo o primeiro
func Dedupe(list []models.Address) []models.Address {
	seen := make(map[string]struct{}, len(list))
	out := make([]models.Address, 0, len(list))
	for _, a := range list {
		if _, ok := seen[a.Key()]; ok {
			continue
		}
		seen[a.Key()] = struct{}{}
		out = append(out, a)
	}
	return out
}

func (s *AddressService) queryStreet(ctx context.Context, uf, city, q string) ([]models.Address, error) {
	ctx, cancel := context.WithTimeout(ctx, streetQueryTimeout)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "viacep-street-query")
	defer span.End()
	span.SetAttributes(attribute.String("city", city), attribute.String("query", q))

	path := fmt.Sprintf("/%s/%s/%s/json/", uf, url.PathEscape(city), url.PathEscape(q))

	var found []models.Address
	status, err := s.get(ctx, path, &found)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	if status != http.StatusOK {
		err := fmt.Errorf("viacep returned status %d", status)
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("results", len(found)))
	return found, nil
}

// get faz a requisição ao ViaCEP e decodifica o corpo quando o status é 200
func (s *AddressService) get(ctx context.Context, path string, dst interface{}) (int, error) {
	reqURL := s.baseURL + path
	s.log.Debug("Consultando ViaCEP", zap.String("url", reqURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return resp.StatusCode, fmt.Errorf("decoding viacep response: %w", err)
	}
	return resp.StatusCode, nil
}

func (s *AddressService) fromCache(ctx context.Context, key string, dst interface{}) bool {
	ok, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		s.log.Warn("Erro ao ler cache", zap.String("key", key), zap.Error(err))
		return false
	}
	return ok
}

func (s *AddressService) toCache(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.log.Warn("Erro ao gravar cache", zap.String("key", key), zap.Error(err))
	}
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

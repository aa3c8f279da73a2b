package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/l0p7/fipegate/internal/fipe"
	"github.com/l0p7/fipegate/internal/templates"
)

const (
	// DefaultBaseURL is the public parallelum FIPE v2 endpoint.
	DefaultBaseURL = "https://fipe.parallelum.com.br/api/v2"
	// TokenHeader carries the optional subscription token.
	TokenHeader = "X-Subscription-Token"

	defaultTimeout  = 5 * time.Second
	maxResponseSize = 1 << 20
)

// HTTP is the net/http implementation of Client.
type HTTP struct {
	baseURL    string
	token      string
	timeout    time.Duration
	httpClient *http.Client
	routes     Routes
	compiled   map[string]*templates.Template
}

var _ Client = (*HTTP)(nil)

// Option configures HTTP.
type Option func(*HTTP)

// WithHTTPClient sets a custom HTTP client. Its own Timeout, if any, still
// applies on top of WithTimeout.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTP) {
		if c != nil {
			h.httpClient = c
		}
	}
}

// WithToken sets the subscription token sent with every request.
func WithToken(token string) Option {
	return func(h *HTTP) { h.token = strings.TrimSpace(token) }
}

// WithTimeout bounds each round-trip (default 5s).
func WithTimeout(d time.Duration) Option {
	return func(h *HTTP) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithRoutes overrides operation path templates. Empty fields keep the defaults.
func WithRoutes(r Routes) Option {
	return func(h *HTTP) { h.routes = r }
}

// NewHTTP builds a client for baseURL, compiling every route template up front.
func NewHTTP(baseURL string, opts ...Option) (*HTTP, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("upstream: base url: %w", err)
	}
	h := &HTTP{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    defaultTimeout,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.routes = h.routes.withDefaults()

	renderer := templates.NewRenderer()
	h.compiled = make(map[string]*templates.Template, 6)
	for op, source := range h.routes.byOperation() {
		tmpl, err := renderer.CompileInline(op, source)
		if err != nil {
			return nil, fmt.Errorf("upstream: route %s: %w", op, err)
		}
		h.compiled[op] = tmpl
	}
	return h, nil
}

// routeParams is the data route templates render with.
type routeParams struct {
	VehicleType string
	BrandID     string
	ModelID     string
	YearID      string
	CodeFipe    string
}

func paramsOf(q fipe.Query) routeParams {
	return routeParams{
		VehicleType: url.PathEscape(string(q.VehicleType)),
		BrandID:     url.PathEscape(q.BrandID),
		ModelID:     url.PathEscape(q.ModelID),
		YearID:      url.PathEscape(q.YearID),
		CodeFipe:    url.PathEscape(q.CodeFipe),
	}
}

type referenceDTO struct {
	Code  string `json:"code"`
	Month string `json:"month"`
}

func (h *HTTP) FetchReferences(ctx context.Context) ([]fipe.Reference, error) {
	body, err := h.get(ctx, OpReferences, fipe.Query{})
	if err != nil {
		return nil, err
	}
	var dtos []referenceDTO
	if err := decodeList(body, &dtos); err != nil {
		return nil, malformed(OpReferences, err)
	}
	// Defaulting depends on the head of this list; an empty one is never a
	// valid answer.
	if len(dtos) == 0 {
		return nil, malformed(OpReferences, errors.New("empty reference list"))
	}
	refs := make([]fipe.Reference, 0, len(dtos))
	for _, dto := range dtos {
		refs = append(refs, fipe.Reference{Code: dto.Code, Label: strings.TrimSpace(dto.Month)})
	}
	return refs, nil
}

func (h *HTTP) FetchBrands(ctx context.Context, q fipe.Query) ([]fipe.NamedCode, error) {
	return h.fetchNamed(ctx, OpBrands, q)
}

func (h *HTTP) FetchModels(ctx context.Context, q fipe.Query) ([]fipe.NamedCode, error) {
	return h.fetchNamed(ctx, OpModels, q)
}

func (h *HTTP) FetchYears(ctx context.Context, q fipe.Query) ([]fipe.NamedCode, error) {
	return h.fetchNamed(ctx, OpYears, q)
}

func (h *HTTP) FetchVehicleInfo(ctx context.Context, q fipe.Query) (fipe.VehicleInfo, error) {
	if _, err := fipe.ParseVehicleType(string(q.VehicleType)); err != nil {
		return fipe.VehicleInfo{}, err
	}
	body, err := h.get(ctx, OpVehicleInfo, q)
	if err != nil {
		return fipe.VehicleInfo{}, err
	}
	info, err := decodeVehicle(body)
	if err != nil {
		return fipe.VehicleInfo{}, malformed(OpVehicleInfo, err)
	}
	return info, nil
}

// FetchByCode accepts either a single vehicle or a list of vehicles (one per
// model year) and returns the first. An empty list is a not-found.
func (h *HTTP) FetchByCode(ctx context.Context, q fipe.Query) (fipe.VehicleInfo, error) {
	body, err := h.get(ctx, OpByCode, q)
	if err != nil {
		return fipe.VehicleInfo{}, err
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return fipe.VehicleInfo{}, malformed(OpByCode, err)
		}
		if len(list) == 0 {
			return fipe.VehicleInfo{}, &fipe.UpstreamError{Operation: OpByCode, Status: http.StatusOK, Err: fipe.ErrNotFound}
		}
		trimmed = list[0]
	}
	info, err := decodeVehicle(trimmed)
	if err != nil {
		return fipe.VehicleInfo{}, malformed(OpByCode, err)
	}
	return info, nil
}

func (h *HTTP) fetchNamed(ctx context.Context, op string, q fipe.Query) ([]fipe.NamedCode, error) {
	if _, err := fipe.ParseVehicleType(string(q.VehicleType)); err != nil {
		return nil, err
	}
	body, err := h.get(ctx, op, q)
	if err != nil {
		return nil, err
	}
	var items []fipe.NamedCode
	if err := decodeList(body, &items); err != nil {
		return nil, malformed(op, err)
	}
	if items == nil {
		items = []fipe.NamedCode{}
	}
	return items, nil
}

// get performs the single round-trip for op and returns the 2xx body.
func (h *HTTP) get(ctx context.Context, op string, q fipe.Query) ([]byte, error) {
	endpoint, err := h.endpoint(op, q)
	if err != nil {
		return nil, &fipe.UpstreamError{Operation: op, Err: fmt.Errorf("%w: %w", fipe.ErrUpstreamUnavailable, err)}
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &fipe.UpstreamError{Operation: op, Err: fmt.Errorf("%w: %w", fipe.ErrUpstreamUnavailable, err)}
	}
	req.Header.Set("Accept", "application/json")
	if h.token != "" {
		req.Header.Set(TokenHeader, h.token)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, &fipe.UpstreamError{Operation: op, Err: fmt.Errorf("%w: %w", fipe.ErrUpstreamUnavailable, err)}
	}
	defer resp.Body.Close()

	if err := mapHTTPError(op, resp); err != nil {
		return nil, err
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &fipe.UpstreamError{Operation: op, Status: resp.StatusCode, Err: fmt.Errorf("%w: read body: %w", fipe.ErrUpstreamUnavailable, err)}
	}
	return body, nil
}

func (h *HTTP) endpoint(op string, q fipe.Query) (string, error) {
	path, err := h.compiled[op].Render(paramsOf(q))
	if err != nil {
		return "", err
	}
	endpoint := h.baseURL + "/" + strings.TrimLeft(path, "/")
	if q.Reference != "" {
		values := url.Values{}
		values.Set("reference", q.Reference)
		endpoint += "?" + values.Encode()
	}
	return endpoint, nil
}

func mapHTTPError(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	detail := strings.TrimSpace(string(snippet))

	if resp.StatusCode == http.StatusNotFound {
		return &fipe.UpstreamError{Operation: op, Status: resp.StatusCode, Err: fipe.ErrNotFound}
	}
	err := fipe.ErrUpstreamUnavailable
	if detail != "" {
		err = fmt.Errorf("%w: %s", fipe.ErrUpstreamUnavailable, detail)
	}
	return &fipe.UpstreamError{Operation: op, Status: resp.StatusCode, Err: err}
}

var errNullPayload = errors.New("null or empty payload")

// decodeList rejects a null or empty body but accepts "[]".
func decodeList(body []byte, out any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return errNullPayload
	}
	return json.Unmarshal(trimmed, out)
}

func decodeVehicle(body []byte) (fipe.VehicleInfo, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return fipe.VehicleInfo{}, errNullPayload
	}
	var info fipe.VehicleInfo
	if err := json.Unmarshal(trimmed, &info); err != nil {
		return fipe.VehicleInfo{}, err
	}
	if info.Price == "" {
		return fipe.VehicleInfo{}, errors.New("vehicle payload without price")
	}
	return info, nil
}

func malformed(op string, err error) error {
	return &fipe.UpstreamError{Operation: op, Status: http.StatusOK, Err: fmt.Errorf("%w: malformed payload: %w", fipe.ErrUpstreamUnavailable, err)}
}

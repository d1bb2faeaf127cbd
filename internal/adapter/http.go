package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-budget-keeper/internal/config"
	"github.com/MKhiriev/go-budget-keeper/internal/logger"
	"github.com/MKhiriev/go-budget-keeper/internal/utils"
	"github.com/MKhiriev/go-budget-keeper/models"
	"github.com/go-resty/resty/v2"
)

type httpRemoteStore struct {
	client *utils.HTTPClient

	logger *logger.Logger
}

// NewHTTPRemoteStore constructs an HTTP/REST implementation of [RemoteStore].
// It normalises and validates the base URL from adapterCfg.ServerAddress,
// configures the underlying HTTP client with the resolved base URL and request
// timeout, and stores the pre-issued bearer token from adapterCfg.Token for
// authenticated requests.
//
// Returns an error if adapterCfg.ServerAddress is empty or cannot be parsed as
// a valid URL.
func NewHTTPRemoteStore(adapterCfg config.ClientAdapter, logger *logger.Logger) (RemoteStore, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(adapterCfg.ServerAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter server address: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)
	client.SetBearerToken(adapterCfg.Token)

	return &httpRemoteStore{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Get implements [RemoteStore]. It GETs /api/{collection}/{id} and decodes the
// response into a [models.Record]. Returns [ErrNotFound] (wrapped) on HTTP
// 404 and [ErrNetworkFailure] (wrapped) if the server cannot be reached.
func (h *httpRemoteStore) Get(ctx context.Context, collection models.Collection, recordID string) (models.Record, error) {
	resp, err := h.authedRequest(ctx).
		Get(recordPath(collection, recordID))
	if err != nil {
		return models.Record{}, fmt.Errorf("%w: get request: %v", ErrNetworkFailure, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Record{}, err
	}

	var record models.Record
	if err = json.Unmarshal(resp.Body(), &record); err != nil {
		return models.Record{}, fmt.Errorf("decode get response: %w", err)
	}

	return record, nil
}

// List implements [RemoteStore]. It GETs /api/{collection} with the non-zero
// filter fields as query parameters and decodes the response into the records
// slice of [models.RecordsResponse]. Requires a valid bearer token.
func (h *httpRemoteStore) List(ctx context.Context, collection models.Collection, filter models.RecordFilter) ([]models.Record, error) {
	req := h.authedRequest(ctx)
	if filter.DateFrom != "" {
		req.SetQueryParam("date_from", filter.DateFrom)
	}
	if filter.DateTo != "" {
		req.SetQueryParam("date_to", filter.DateTo)
	}
	if filter.Category != "" {
		req.SetQueryParam("category", filter.Category)
	}
	if filter.ActiveOnly {
		req.SetQueryParam("active_only", strconv.FormatBool(filter.ActiveOnly))
	}

	resp, err := req.Get("/api/" + url.PathEscape(collection.String()))
	if err != nil {
		return nil, fmt.Errorf("%w: list request: %v", ErrNetworkFailure, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var listResp models.RecordsResponse
	if err = json.Unmarshal(resp.Body(), &listResp); err != nil {
		return nil, fmt.Errorf("decode list response: %w", err)
	}

	return listResp.Records, nil
}

// SetIfVersion implements [RemoteStore]. It PUTs a [models.WriteRequest] to
// /api/{collection}/{id} and decodes the stored record from the response. On
// HTTP 409 the conflict envelope is decoded into a [*VersionConflictError]
// carrying the current remote state. Requires a valid bearer token.
func (h *httpRemoteStore) SetIfVersion(ctx context.Context, record models.Record, expectedVersion int64) (models.Record, error) {
	body := models.WriteRequest{
		Payload:         record.Payload,
		ExpectedVersion: expectedVersion,
		UpdatedAt:       record.UpdatedAt,
	}

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Put(recordPath(record.Collection, record.ID))
	if err != nil {
		return models.Record{}, fmt.Errorf("%w: set request: %v", ErrNetworkFailure, err)
	}
	if resp.StatusCode() == http.StatusConflict {
		return models.Record{}, decodeVersionConflict(resp)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Record{}, err
	}

	var stored models.Record
	if err = json.Unmarshal(resp.Body(), &stored); err != nil {
		return models.Record{}, fmt.Errorf("decode set response: %w", err)
	}

	return stored, nil
}

// Delete implements [RemoteStore]. It sends DELETE /api/{collection}/{id}.
// Returns [ErrNotFound] (wrapped) on HTTP 404, which callers treat as an
// already-completed deletion. Requires a valid bearer token.
func (h *httpRemoteStore) Delete(ctx context.Context, collection models.Collection, recordID string) error {
	resp, err := h.authedRequest(ctx).
		Delete(recordPath(collection, recordID))
	if err != nil {
		return fmt.Errorf("%w: delete request: %v", ErrNetworkFailure, err)
	}

	return mapHTTPError(resp)
}

// Health implements [RemoteStore]. It probes HEAD /api/health without
// authentication. Any non-2xx answer or transport failure reports the server
// as unreachable.
func (h *httpRemoteStore) Health(ctx context.Context) error {
	resp, err := h.client.R().
		SetContext(ctx).
		Head("/api/health")
	if err != nil {
		return fmt.Errorf("%w: health request: %v", ErrNetworkFailure, err)
	}

	return mapHTTPError(resp)
}

func (h *httpRemoteStore) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.client.BearerToken(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func recordPath(collection models.Collection, recordID string) string {
	return "/api/" + url.PathEscape(collection.String()) + "/" + url.PathEscape(recordID)
}

func decodeVersionConflict(resp *resty.Response) error {
	var body models.WriteConflictResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return fmt.Errorf("%w: undecodable conflict body: %v", ErrConflict, err)
	}

	return &VersionConflictError{
		CurrentVersion:   body.CurrentVersion,
		CurrentPayload:   body.CurrentPayload,
		CurrentUpdatedAt: body.CurrentUpdatedAt,
		Deleted:          body.Deleted,
	}
}

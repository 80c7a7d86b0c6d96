package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/i474232898/station-data-api/internal/observation"
)

const defaultBaseURL = "https://opendata.aemet.es/opendata/api"

// AEMETProvider implements observation.Provider against the AEMET OpenData
// Antarctica endpoint. The provider uses a two-step indirection: the metadata
// request returns an envelope whose `datos` field is the URL of the actual
// payload.
type AEMETProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewAEMETProvider(client *http.Client, apiKey string) *AEMETProvider {
	return &AEMETProvider{
		name:    "aemet-opendata",
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  client,
	}
}

func (p *AEMETProvider) Name() string {
	return p.name
}

// Fetch performs the two-step exchange. A non-200 metadata response is
// returned as *observation.UpstreamError carrying the raw body, with no
// retry. A 200 envelope without a `datos` URL becomes a structured no-data
// result rather than an error.
func (p *AEMETProvider) Fetch(ctx context.Context, startDate, endDate string, station observation.Station) (observation.FetchResult, error) {
	if p.apiKey == "" {
		return observation.FetchResult{}, fmt.Errorf("aemet api key is not configured")
	}

	u := fmt.Sprintf("%s/antartida/datos/fechaini/%s/fechafin/%s/estacion/%s",
		p.baseURL, startDate, endDate, station.Code())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return observation.FetchResult{}, err
	}
	req.Header.Set("api_key", p.apiKey)
	req.Header.Set("accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return observation.FetchResult{}, fmt.Errorf("aemet metadata request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return observation.FetchResult{}, fmt.Errorf("aemet metadata body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return observation.FetchResult{}, &observation.UpstreamError{
			StatusCode: resp.StatusCode,
			Body:       body,
		}
	}

	var envelope struct {
		Description string `json:"descripcion"`
		Status      int    `json:"estado"`
		Datos       string `json:"datos"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return observation.FetchResult{}, fmt.Errorf("aemet metadata envelope: %w", err)
	}

	if envelope.Datos == "" {
		return observation.FetchResult{
			NoData: &observation.NoData{
				Description: envelope.Description,
				Status:      envelope.Status,
			},
		}, nil
	}

	return p.fetchPayload(ctx, envelope.Datos)
}

func (p *AEMETProvider) fetchPayload(ctx context.Context, payloadURL string) (observation.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, payloadURL, nil)
	if err != nil {
		return observation.FetchResult{}, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return observation.FetchResult{}, fmt.Errorf("aemet payload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return observation.FetchResult{}, &observation.UpstreamError{
			StatusCode: resp.StatusCode,
			Body:       body,
		}
	}

	var records []observation.RawObservation
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return observation.FetchResult{}, fmt.Errorf("aemet payload decode: %w", err)
	}

	return observation.FetchResult{Records: records}, nil
}

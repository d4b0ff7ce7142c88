package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/amparo-center/attendance-service/internal/core/ports"
)

// HTTPPatientDirectory resolves patient display names against the platform's
// patient service. Lookups are best effort; callers fall back to the raw id.
type HTTPPatientDirectory struct {
	baseURL string
	client  *http.Client
}

var _ ports.PatientDirectory = (*HTTPPatientDirectory)(nil)

func NewHTTPPatientDirectory(baseURL string) *HTTPPatientDirectory {
	return &HTTPPatientDirectory{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type patientResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

func (d *HTTPPatientDirectory) DisplayName(ctx context.Context, patientID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		d.baseURL+"/patients/"+url.PathEscape(patientID), nil)
	if err != nil {
		return "", err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("patient directory returned %d for %s", resp.StatusCode, patientID)
	}

	var patient patientResponse
	if err := json.NewDecoder(resp.Body).Decode(&patient); err != nil {
		return "", err
	}
	if patient.DisplayName == "" {
		return "", errors.New("patient has no display name")
	}
	return patient.DisplayName, nil
}

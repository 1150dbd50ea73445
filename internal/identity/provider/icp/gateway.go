package icp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// GatewayClient implementa IdentityClient contra el gateway de Internet
// Identity del deployment. Se usa sobre todo para Logout: la invalidación
// server-side de la sesión externa en un logout ICP.
type GatewayClient struct {
	base string
	hc   *http.Client
}

// NewGatewayClient crea el cliente del gateway.
func NewGatewayClient(baseURL string) *GatewayClient {
	return &GatewayClient{
		base: strings.TrimRight(baseURL, "/"),
		hc:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Login consulta la sesión vigente del gateway.
func (c *GatewayClient) Login(ctx context.Context) (*LoginResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/session", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway status %d", resp.StatusCode)
	}

	var body struct {
		Principal   string `json:"principal"`
		IsAnonymous bool   `json:"isAnonymous"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return &LoginResult{PrincipalText: body.Principal, IsAnonymous: body.IsAnonymous}, nil
}

// Logout invalida la sesión en el gateway.
func (c *GatewayClient) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.base+"/session", nil)
	if err != nil {
		return err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway status %d", resp.StatusCode)
	}
	return nil
}

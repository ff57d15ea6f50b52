package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"routeros-panel-api/models"
)

// RouterAPI is the slice of the RouterOS REST surface the generators consume.
type RouterAPI interface {
	ListPPPoESecrets(ctx context.Context) ([]PPPoESecret, error)
	ListDHCPLeases(ctx context.Context) ([]DHCPLease, error)
	ListRoutes(ctx context.Context) ([]IPRoute, error)
}

// RouterOS returns boolean fields as the strings "true"/"false"; the record
// types keep the raw string and expose helpers instead of fighting the codec.
func routerOSBool(s string) bool {
	return strings.EqualFold(s, "true") || strings.EqualFold(s, "yes")
}

type PPPoESecret struct {
	ID       string `json:".id"`
	Name     string `json:"name"`
	Service  string `json:"service"`
	Profile  string `json:"profile"`
	Disabled string `json:"disabled"`
	Comment  string `json:"comment"`
}

func (s PPPoESecret) IsDisabled() bool { return routerOSBool(s.Disabled) }

type DHCPLease struct {
	ID         string `json:".id"`
	Address    string `json:"address"`
	MACAddress string `json:"mac-address"`
	HostName   string `json:"host-name"`
	Timeout    string `json:"timeout"`
	Status     string `json:"status"`
	Disabled   string `json:"disabled"`
	Comment    string `json:"comment"`
}

func (l DHCPLease) IsDisabled() bool { return routerOSBool(l.Disabled) }

// DisplayName prefers the host name and falls back to the lease address.
func (l DHCPLease) DisplayName() string {
	if l.HostName != "" {
		return l.HostName
	}
	return l.Address
}

type IPRoute struct {
	ID         string `json:".id"`
	DstAddress string `json:"dst-address"`
	Gateway    string `json:"gateway"`
	Disabled   string `json:"disabled"`
	Active     string `json:"active"`
	Comment    string `json:"comment"`
}

func (r IPRoute) IsDisabled() bool { return routerOSBool(r.Disabled) }
func (r IPRoute) IsActive() bool   { return routerOSBool(r.Active) }

// RouterOSClient talks to one router's REST API with basic auth.
type RouterOSClient struct {
	baseURL  string
	username string
	password string
	client   *http.Client
}

// NewRouterOSClient constructs a client for the given registered router.
func NewRouterOSClient(router models.Router, client *http.Client) *RouterOSClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	base := router.Address
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &RouterOSClient{
		baseURL:  strings.TrimRight(base, "/"),
		username: router.Username,
		password: router.Password,
		client:   client,
	}
}

func (c *RouterOSClient) ListPPPoESecrets(ctx context.Context) ([]PPPoESecret, error) {
	var secrets []PPPoESecret
	if err := c.get(ctx, "/rest/ppp/secret", &secrets); err != nil {
		return nil, err
	}
	return secrets, nil
}

func (c *RouterOSClient) ListDHCPLeases(ctx context.Context) ([]DHCPLease, error) {
	var leases []DHCPLease
	if err := c.get(ctx, "/rest/ip/dhcp-server/lease", &leases); err != nil {
		return nil, err
	}
	return leases, nil
}

func (c *RouterOSClient) ListRoutes(ctx context.Context) ([]IPRoute, error) {
	var routes []IPRoute
	if err := c.get(ctx, "/rest/ip/route", &routes); err != nil {
		return nil, err
	}
	return routes, nil
}

func (c *RouterOSClient) get(ctx context.Context, path string, out interface{}) error {
	reqURL, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("invalid router url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("router request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("router returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode router response: %w", err)
	}
	return nil
}

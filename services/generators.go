package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"routeros-panel-api/config"
	"routeros-panel-api/models"
)

// GeneratorResult counts one generator's work during a cycle.
type GeneratorResult struct {
	Created int `json:"created"`
	Dropped int `json:"dropped"` // rejected by the dedup/debounce filter
	Errors  int `json:"errors"`
}

// CycleSummary is the outcome of one full generator cycle. The last summary is
// exposed read-only so sink failures are not completely invisible to operators.
type CycleSummary struct {
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Routers    int             `json:"routers"`
	PPPoE      GeneratorResult `json:"pppoe"`
	DHCP       GeneratorResult `json:"dhcp"`
	Network    GeneratorResult `json:"network"`
	Billed     GeneratorResult `json:"billed"`
}

// GeneratorService runs the four notification generators over every enabled
// router. Generators are sequential; a fetch failure on one router is logged
// and skips that router only.
type GeneratorService struct {
	db       *gorm.DB
	notifier *NotificationService
	dial     func(models.Router) RouterAPI
	now      func() time.Time

	mu   sync.Mutex
	last *CycleSummary
}

// NewGeneratorService constructs a GeneratorService.
func NewGeneratorService(db *gorm.DB, notifier *NotificationService) *GeneratorService {
	if db == nil {
		db = config.DB
	}
	if notifier == nil {
		notifier = NewNotificationService(db, nil)
	}
	return &GeneratorService{
		db:       db,
		notifier: notifier,
		dial: func(r models.Router) RouterAPI {
			return NewRouterOSClient(r, nil)
		},
		now: time.Now,
	}
}

// LastSummary returns the most recent cycle summary, or nil before the first
// cycle completes.
func (g *GeneratorService) LastSummary() *CycleSummary {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.last == nil {
		return nil
	}
	cp := *g.last
	return &cp
}

// Run executes one generator cycle. Settings are read fresh so flag changes
// take effect on the next tick without a restart. Run never returns an error:
// everything is degraded to counters and log lines.
func (g *GeneratorService) Run(ctx context.Context) CycleSummary {
	summary := CycleSummary{StartedAt: g.now()}

	settings, err := LoadPanelSettings(g.db)
	if err != nil {
		log.Printf("Generator cycle skipped: %v", err)
		summary.FinishedAt = g.now()
		return summary
	}
	ns := settings.Notification()

	var routers []models.Router
	if err := g.db.Where("enabled = ? AND delete_at IS NULL", true).Find(&routers).Error; err != nil {
		log.Printf("Generator cycle skipped, failed to list routers: %v", err)
		summary.FinishedAt = g.now()
		return summary
	}
	summary.Routers = len(routers)

	if ns.PPPoEEnabled {
		summary.PPPoE = g.runPPPoE(ctx, routers, settings, ns)
	}
	if ns.DHCPEnabled {
		summary.DHCP = g.runDHCP(ctx, routers, settings, ns)
	}
	if ns.NetworkEnabled {
		summary.Network = g.runNetwork(ctx, routers, settings, ns)
	}
	if ns.BilledEnabled {
		summary.Billed = g.runBilled(ctx, routers, settings, ns)
	}

	summary.FinishedAt = g.now()

	g.mu.Lock()
	g.last = &summary
	g.mu.Unlock()

	return summary
}

func eventKey(kind string, routerID int, subject string) string {
	return fmt.Sprintf("%s:%d:%s", kind, routerID, subject)
}

func contextJSON(routerID int, fields map[string]string) string {
	payload := map[string]interface{}{"router_id": routerID}
	for k, v := range fields {
		payload[k] = v
	}
	raw, _ := json.Marshal(payload)
	return string(raw)
}

// pppoeExpired reports whether a secret should be treated as expired: its
// disabled flag is set, its comment carries an expiry marker, or a JSON due
// date embedded by the billing features has passed.
func pppoeExpired(s PPPoESecret, now time.Time) bool {
	if s.IsDisabled() {
		return true
	}
	comment := strings.ToLower(s.Comment)
	if strings.Contains(comment, "expired") || strings.Contains(comment, "due:") {
		return true
	}
	if due, ok := ParseCommentDue(s.Comment); ok && !due.After(now) {
		return true
	}
	return false
}

func (g *GeneratorService) runPPPoE(ctx context.Context, routers []models.Router, settings *models.PanelSettings, ns models.NotificationSettings) GeneratorResult {
	var res GeneratorResult
	for _, router := range routers {
		secrets, err := g.dial(router).ListPPPoESecrets(ctx)
		if err != nil {
			log.Printf("PPPoE generator: fetch from router %s failed: %v", router.Name, err)
			res.Errors++
			continue
		}
		for _, secret := range secrets {
			if !pppoeExpired(secret, g.now()) {
				continue
			}
			g.emit(ctx, Candidate{
				Type:        models.NotificationTypePPPoEExpired,
				Message:     fmt.Sprintf("PPPoE secret %q on router %s has expired", secret.Name, router.Name),
				EventKey:    eventKey("pppoe-expired", router.RouterID, secret.Name),
				LinkTo:      "pppoe",
				ContextJSON: contextJSON(router.RouterID, map[string]string{"username": secret.Name}),
				Telegram:    ns.PPPoETelegram,
			}, settings, &res)
		}
	}
	return res
}

func (g *GeneratorService) runDHCP(ctx context.Context, routers []models.Router, settings *models.PanelSettings, ns models.NotificationSettings) GeneratorResult {
	var res GeneratorResult
	nearExpiry := int64(ns.DHCPNearExpiryHours) * 3600
	for _, router := range routers {
		leases, err := g.dial(router).ListDHCPLeases(ctx)
		if err != nil {
			log.Printf("DHCP generator: fetch from router %s failed: %v", router.Name, err)
			res.Errors++
			continue
		}
		for _, lease := range leases {
			secs, ok := ParseRouterOSDuration(lease.Timeout)
			if !ok {
				// Malformed timeout is "no actionable data", not an expiry.
				continue
			}
			name := lease.DisplayName()
			switch {
			case secs <= 0:
				g.emit(ctx, Candidate{
					Type:        models.NotificationTypeInfo,
					Message:     fmt.Sprintf("Portal client %q on router %s has expired", name, router.Name),
					EventKey:    eventKey("dhcp-expired", router.RouterID, name),
					LinkTo:      "dhcp-portal",
					ContextJSON: contextJSON(router.RouterID, map[string]string{"client": name}),
					Telegram:    ns.DHCPTelegram,
				}, settings, &res)
			case secs <= nearExpiry:
				g.emit(ctx, Candidate{
					Type:        models.NotificationTypeInfo,
					Message:     fmt.Sprintf("Portal client %q on router %s expires soon", name, router.Name),
					EventKey:    eventKey("dhcp-soon", router.RouterID, name),
					LinkTo:      "dhcp-portal",
					ContextJSON: contextJSON(router.RouterID, map[string]string{"client": name}),
					Telegram:    ns.DHCPTelegram,
				}, settings, &res)
			}
		}
	}
	return res
}

func (g *GeneratorService) runNetwork(ctx context.Context, routers []models.Router, settings *models.PanelSettings, ns models.NotificationSettings) GeneratorResult {
	var res GeneratorResult
	for _, router := range routers {
		routes, err := g.dial(router).ListRoutes(ctx)
		if err != nil {
			log.Printf("Network generator: fetch from router %s failed: %v", router.Name, err)
			res.Errors++
			continue
		}
		for _, route := range routes {
			// Only default routes count as WAN links.
			if route.DstAddress != "0.0.0.0/0" {
				continue
			}
			subject := route.Gateway
			if subject == "" {
				subject = route.ID
			}
			var state string
			switch {
			case route.IsDisabled():
				state = "disabled"
			case !route.IsActive():
				state = "down"
			default:
				continue
			}
			g.emit(ctx, Candidate{
				Type:        models.NotificationTypeInfo,
				Message:     fmt.Sprintf("WAN route via %s on router %s is %s", subject, router.Name, state),
				EventKey:    eventKey("network", router.RouterID, subject),
				LinkTo:      "network",
				ContextJSON: contextJSON(router.RouterID, map[string]string{"gateway": subject, "state": state}),
				Telegram:    ns.NetworkTelegram,
			}, settings, &res)
		}
	}
	return res
}

func (g *GeneratorService) runBilled(ctx context.Context, routers []models.Router, settings *models.PanelSettings, ns models.NotificationSettings) GeneratorResult {
	var res GeneratorResult

	var sales []models.Sale
	cutoff := g.now().Add(-24 * time.Hour)
	if err := g.db.Where("create_at >= ? AND delete_at IS NULL", cutoff).Find(&sales).Error; err != nil {
		log.Printf("Billed generator: failed to list sales: %v", err)
		res.Errors++
		return res
	}
	if len(sales) == 0 {
		return res
	}

	// Customer name -> owning router + service, for the link_to decision.
	type match struct {
		routerID int
		linkTo   string
	}
	matches := make(map[string]match)
	for _, router := range routers {
		api := g.dial(router)
		secrets, err := api.ListPPPoESecrets(ctx)
		if err != nil {
			log.Printf("Billed generator: fetch from router %s failed: %v", router.Name, err)
			res.Errors++
			continue
		}
		for _, secret := range secrets {
			key := strings.ToLower(secret.Name)
			if _, seen := matches[key]; !seen {
				matches[key] = match{routerID: router.RouterID, linkTo: "pppoe"}
			}
		}
		leases, err := api.ListDHCPLeases(ctx)
		if err != nil {
			log.Printf("Billed generator: fetch from router %s failed: %v", router.Name, err)
			res.Errors++
			continue
		}
		for _, lease := range leases {
			key := strings.ToLower(lease.DisplayName())
			if _, seen := matches[key]; !seen {
				matches[key] = match{routerID: router.RouterID, linkTo: "dhcp-portal"}
			}
		}
	}

	for _, sale := range sales {
		m, found := matches[strings.ToLower(sale.CustomerName)]
		if !found {
			m = match{linkTo: "billing"}
		}
		g.emit(ctx, Candidate{
			Type:        models.NotificationTypeInfo,
			Message:     fmt.Sprintf("Customer %q was billed %.2f", sale.CustomerName, sale.Amount),
			EventKey:    eventKey("billed", m.routerID, sale.CustomerName),
			LinkTo:      m.linkTo,
			ContextJSON: contextJSON(m.routerID, map[string]string{"customer": sale.CustomerName}),
			Telegram:    ns.BilledTelegram,
		}, settings, &res)
	}
	return res
}

func (g *GeneratorService) emit(ctx context.Context, c Candidate, settings *models.PanelSettings, res *GeneratorResult) {
	created, err := g.notifier.Emit(ctx, c, settings)
	switch {
	case err != nil:
		res.Errors++
	case created:
		res.Created++
	default:
		res.Dropped++
	}
}

package syncer

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"inventory-sync/internal/adapters/isapi"
	"inventory-sync/internal/adapters/isapi/dto"
	"inventory-sync/internal/config"
	"inventory-sync/internal/logging"
)

const (
	clientConcurrency = 4
	skuConcurrency    = 4
)

// ItemOutcome is the per-(client, SKU) record of one probe-and-push pair.
// Transport failures and application error responses are kept apart.
type ItemOutcome struct {
	SKU       string
	IsNew     bool
	Code      int
	Response  *dto.UpdateStockResponse
	Error     string
	Transport bool
	ProbeErr  string
}

type ClientReport struct {
	Client  string
	Results []ItemOutcome
}

type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Clients    []ClientReport
}

type SyncService interface {
	Run(ctx context.Context, clients []config.ClientEndpoint, payloads map[string]dto.UpdateStockRequest) *Report
}

type Orchestrator struct {
	api    isapi.StockPushService
	logger logging.LoggerService
}

func NewOrchestrator(api isapi.StockPushService, logger logging.LoggerService) SyncService {
	return &Orchestrator{api: api, logger: logger}
}

// Run pushes every payload to every client. Clients are processed
// concurrently and are fully isolated: one unreachable client yields
// error entries for its SKUs and nothing else. Within one client the
// probe gates is_new for the push, so the pair is sequential per SKU
// while different SKUs run concurrently. Nothing is retried; the caller
// decides whether to re-run.
func (o *Orchestrator) Run(ctx context.Context, clients []config.ClientEndpoint, payloads map[string]dto.UpdateStockRequest) *Report {
	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Clients:   make([]ClientReport, len(clients)),
	}

	if o.logger != nil {
		o.logger.Log(fmt.Sprintf("Stock push started run=%s clients=%d payloads=%d",
			report.RunID, len(clients), len(payloads)))
	}

	skus := make([]string, 0, len(payloads))
	for sku := range payloads {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	var g errgroup.Group
	g.SetLimit(clientConcurrency)
	for i, client := range clients {
		g.Go(func() error {
			report.Clients[i] = o.runClient(ctx, client, skus, payloads)
			return nil
		})
	}
	_ = g.Wait()

	report.FinishedAt = time.Now().UTC()

	if o.logger != nil {
		pushed, failed := 0, 0
		for _, cr := range report.Clients {
			for _, r := range cr.Results {
				if r.Error == "" {
					pushed++
				} else {
					failed++
				}
			}
		}
		o.logger.LogSuccess(fmt.Sprintf("Stock push completed run=%s pushed=%d failed=%d",
			report.RunID, pushed, failed))
	}

	return report
}

func (o *Orchestrator) runClient(ctx context.Context, client config.ClientEndpoint, skus []string, payloads map[string]dto.UpdateStockRequest) ClientReport {
	cr := ClientReport{Client: client.URL}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(skuConcurrency)

	for _, sku := range skus {
		if ctx.Err() != nil {
			break
		}
		payload := payloads[sku]
		g.Go(func() error {
			outcome := o.pushOne(ctx, client, payload)
			mu.Lock()
			cr.Results = append(cr.Results, outcome)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(cr.Results, func(i, j int) bool { return cr.Results[i].SKU < cr.Results[j].SKU })
	return cr
}

// pushOne runs the probe-then-push pair for one payload. A 404 probe
// flags the payload as new; a failed probe is recorded but does not stop
// the push, matching the original behavior of pushing with is_new unset.
func (o *Orchestrator) pushOne(ctx context.Context, client config.ClientEndpoint, payload dto.UpdateStockRequest) ItemOutcome {
	outcome := ItemOutcome{SKU: payload.SKU}

	exists, err := o.api.Probe(ctx, client, payload.SKU)
	if err != nil {
		outcome.ProbeErr = err.Error()
		if o.logger != nil {
			o.logger.LogWarning(fmt.Sprintf("Probe failed client=%s sku=%s err=%v", client.URL, payload.SKU, err))
		}
	} else if !exists {
		payload.IsNew = true
		outcome.IsNew = true
	}

	resp, code, err := o.api.Push(ctx, client, payload)
	outcome.Code = code
	outcome.Response = resp
	if err != nil {
		outcome.Error = err.Error()
		if _, isStatus := isapi.IsStatusError(err); !isStatus {
			outcome.Transport = true
		}
	}
	return outcome
}

package bright

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IngressType identifies the connector kind of an ingress
type IngressType string

const (
	IngressTypePostgres IngressType = "postgres"
)

// IngressStatus is the observed state of an ingress, reported by the server
type IngressStatus string

const (
	IngressStatusStopped  IngressStatus = "stopped"
	IngressStatusStarting IngressStatus = "starting"
	IngressStatusRunning  IngressStatus = "running"
	IngressStatusSyncing  IngressStatus = "syncing"
	IngressStatusPaused   IngressStatus = "paused"
	IngressStatusFailed   IngressStatus = "failed"
)

// IngressState is the desired state requested through UpdateIngressState.
// The client requests transitions; the observed status is the server's.
type IngressState string

const (
	IngressStateRunning   IngressState = "running"
	IngressStatePaused    IngressState = "paused"
	IngressStateResyncing IngressState = "resyncing"
)

// IngressStatistics contains synchronization statistics
type IngressStatistics struct {
	LastSyncAt       time.Time `json:"last_sync_at,omitempty"`
	DocumentsSynced  int64     `json:"documents_synced"`
	DocumentsDeleted int64     `json:"documents_deleted"`
	FullSyncComplete bool      `json:"full_sync_complete"`
	LastError        string    `json:"last_error,omitempty"`
	ErrorCount       int       `json:"error_count"`
}

// Ingress describes one data-synchronization connector. Config always holds
// the raw connector payload; for known connector types a decoded view is
// populated alongside it (Postgres for type "postgres"), so connectors added
// by newer servers still round-trip through the raw payload.
type Ingress struct {
	ID      string            `json:"id"`
	IndexID string            `json:"index_id"`
	Type    IngressType       `json:"type"`
	Status  IngressStatus     `json:"status"`
	Config  json.RawMessage   `json:"config"`
	Stats   IngressStatistics `json:"stats"`

	Postgres *PostgresConfig `json:"-"`
}

func (ing *Ingress) decodeConfig() error {
	if ing.Type != IngressTypePostgres || len(ing.Config) == 0 {
		return nil
	}
	var cfg PostgresConfig
	if err := sonic.Unmarshal(ing.Config, &cfg); err != nil {
		return fmt.Errorf("failed to decode postgres config: %w", err)
	}
	ing.Postgres = &cfg
	return nil
}

// SyncMode defines how a postgres ingress synchronizes data
type SyncMode string

const (
	SyncModePolling SyncMode = "polling"
	SyncModeListen  SyncMode = "listen"
)

// PostgresConfig holds the configuration of a PostgreSQL ingress
type PostgresConfig struct {
	// Connection settings
	DSN string `json:"dsn"`

	// Table settings
	Schema  string   `json:"schema,omitempty"`
	Table   string   `json:"table"`
	Columns []string `json:"columns,omitempty"`

	// Primary key settings
	PrimaryKey string `json:"primary_key"`

	// Column mapping: source column -> document field
	ColumnMapping map[string]string `json:"column_mapping,omitempty"`

	// Sync settings
	UpdatedAtColumn string   `json:"updated_at_column,omitempty"`
	WhereClause     string   `json:"where_clause,omitempty"`
	SyncMode        SyncMode `json:"sync_mode,omitempty"`
	PollInterval    Duration `json:"poll_interval,omitempty"`
	BatchSize       int      `json:"batch_size,omitempty"`

	// Trigger settings
	AutoTriggers  bool   `json:"auto_triggers,omitempty"`
	NotifyChannel string `json:"notify_channel,omitempty"`
}

// Validate checks the configuration the same way the server does, so a bad
// config fails before the round-trip
func (c *PostgresConfig) Validate() error {
	if c.DSN == "" {
		return fmt.Errorf("dsn is required")
	}
	if c.Table == "" {
		return fmt.Errorf("table is required")
	}
	if c.PrimaryKey == "" {
		return fmt.Errorf("primary_key is required")
	}
	if c.SyncMode != "" && c.SyncMode != SyncModePolling && c.SyncMode != SyncModeListen {
		return fmt.Errorf("sync_mode must be 'polling' or 'listen'")
	}
	if (c.SyncMode == "" || c.SyncMode == SyncModePolling) && c.UpdatedAtColumn == "" {
		return fmt.Errorf("updated_at_column is required for polling mode")
	}
	return nil
}

// Duration is a time.Duration that marshals as a string and unmarshals from
// either a string or nanoseconds
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := sonic.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(dur)
		return nil
	default:
		return fmt.Errorf("invalid duration type: %T", v)
	}
}

// CreateIngressParams describes a new ingress. ID is optional; when empty
// the client generates a UUIDv7. Config is the connector payload: a
// PostgresConfig for type "postgres", or any JSON-serializable value for
// other connector types.
type CreateIngressParams struct {
	ID     string
	Type   IngressType
	Config any
}

type createIngressRequest struct {
	ID     string          `json:"id"`
	Type   IngressType     `json:"type"`
	Config json.RawMessage `json:"config"`
}

type updateIngressRequest struct {
	State IngressState `json:"state"`
}

type ingressListResponse struct {
	Ingresses []Ingress `json:"ingresses"`
}

// ListIngresses lists all ingresses of the index
func (i *Index) ListIngresses(ctx context.Context) ([]Ingress, error) {
	var resp ingressListResponse
	if err := i.client.do(ctx, http.MethodGet, i.path("ingresses"), nil, nil, nil, &resp); err != nil {
		return nil, err
	}
	for idx := range resp.Ingresses {
		ing := &resp.Ingresses[idx]
		// A malformed connector config loses only its decoded view; the raw
		// payload and the rest of the list still come through
		if err := ing.decodeConfig(); err != nil {
			i.client.logger.Warn("failed to decode ingress config",
				zap.String("ingress", ing.ID),
				zap.Error(err),
			)
		}
	}
	return resp.Ingresses, nil
}

// CreateIngress creates an ingress on the index and starts it
func (i *Index) CreateIngress(ctx context.Context, params CreateIngressParams) (*Ingress, error) {
	id := params.ID
	if id == "" {
		uuidV7, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate ingress id: %w", err)
		}
		id = uuidV7.String()
	}

	switch cfg := params.Config.(type) {
	case PostgresConfig:
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid postgres config: %w", err)
		}
	case *PostgresConfig:
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid postgres config: %w", err)
		}
	}

	rawConfig, err := sonic.Marshal(params.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ingress config: %w", err)
	}

	req := createIngressRequest{ID: id, Type: params.Type, Config: rawConfig}

	var ing Ingress
	if err := i.client.doJSON(ctx, http.MethodPost, i.path("ingresses"), nil, req, &ing); err != nil {
		return nil, err
	}
	if err := ing.decodeConfig(); err != nil {
		return nil, err
	}
	return &ing, nil
}

// GetIngress fetches one ingress by ID
func (i *Index) GetIngress(ctx context.Context, ingressID string) (*Ingress, error) {
	var ing Ingress
	if err := i.client.do(ctx, http.MethodGet, i.path("ingresses/"+url.PathEscape(ingressID)), nil, nil, nil, &ing); err != nil {
		return nil, err
	}
	if err := ing.decodeConfig(); err != nil {
		return nil, err
	}
	return &ing, nil
}

// IngressExists reports whether an ingress exists. A not-found error becomes
// false; every other error is returned unchanged.
func (i *Index) IngressExists(ctx context.Context, ingressID string) (bool, error) {
	if _, err := i.GetIngress(ctx, ingressID); err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// UpdateIngressState requests a state transition on an ingress and returns
// the ingress as the server sees it afterwards
func (i *Index) UpdateIngressState(ctx context.Context, ingressID string, state IngressState) (*Ingress, error) {
	var ing Ingress
	if err := i.client.doJSON(ctx, http.MethodPatch, i.path("ingresses/"+url.PathEscape(ingressID)), nil, updateIngressRequest{State: state}, &ing); err != nil {
		return nil, err
	}
	if err := ing.decodeConfig(); err != nil {
		return nil, err
	}
	return &ing, nil
}

// PauseIngress pauses synchronization
func (i *Index) PauseIngress(ctx context.Context, ingressID string) (*Ingress, error) {
	return i.UpdateIngressState(ctx, ingressID, IngressStatePaused)
}

// ResumeIngress resumes a paused synchronization
func (i *Index) ResumeIngress(ctx context.Context, ingressID string) (*Ingress, error) {
	return i.UpdateIngressState(ctx, ingressID, IngressStateRunning)
}

// ResyncIngress triggers a full resynchronization
func (i *Index) ResyncIngress(ctx context.Context, ingressID string) (*Ingress, error) {
	return i.UpdateIngressState(ctx, ingressID, IngressStateResyncing)
}

// DeleteIngress removes an ingress
func (i *Index) DeleteIngress(ctx context.Context, ingressID string) error {
	return i.client.do(ctx, http.MethodDelete, i.path("ingresses/"+url.PathEscape(ingressID)), nil, nil, nil, nil)
}

package mock

import (
	"encoding/json"
	"github.com/viant/caseflow/schema"
	"net/http"
	"sync"
	"time"
)

type (
	// User represents mock account
	User struct {
		Password string
		Identity schema.Identity
	}

	// Service represents mock CaseFlow API
	Service struct {
		Secret   []byte
		TokenTTL time.Duration
		Users    map[string]*User
		Tasks    []*schema.Task
		Datasets map[string]json.RawMessage
		Reports  map[string]json.RawMessage
		// Assets holds raw report assets keyed by study/asset
		Assets map[string][]byte

		LoginHandler    http.HandlerFunc
		MeHandler       http.HandlerFunc
		ResourceHandler http.HandlerFunc

		mux         sync.Mutex
		revoked     map[string]bool
		submissions map[string][]json.RawMessage
	}
)

// NewService creates a mock service with an admin/admin123 account and sample resources
func NewService() *Service {
	return &Service{
		Secret:   []byte("mock-secret"),
		TokenTTL: time.Hour,
		Users: map[string]*User{
			"admin": {Password: "admin123", Identity: schema.Identity{ID: 1, Username: "admin", IsAdmin: true}},
			"guest": {Password: "guest123", Identity: schema.Identity{ID: 2, Username: "guest"}},
		},
		Tasks: []*schema.Task{
			{ID: 1, Slug: "monitoring-kostroma", Title: "Monitoring Kostroma", TaskNumber: 1},
			{ID: 2, Slug: "kpi-suzdal", Title: "KPI Suzdal", TaskNumber: 2},
		},
		Datasets: map[string]json.RawMessage{
			"kpi-suzdal": json.RawMessage(`{"rows":[{"service_name":"mfc","satisfaction_score":8}]}`),
		},
		Reports: map[string]json.RawMessage{
			"digital_inequality": json.RawMessage(`{"model_stats":{"r2":0.81,"rmse":3.2,"intercept":41.5},"coefficients":[{"feature":"internet_penetration","coefficient":-12.4,"abs_coefficient":12.4}]}`),
		},
		Assets: map[string][]byte{
			"digital_inequality/data":  []byte("region,digital_inequality_index\nKostroma,37.2\n"),
			"digital_inequality/model": []byte("mock model"),
		},
		revoked:     map[string]bool{},
		submissions: map[string][]json.RawMessage{},
	}
}

// Revoke makes token rejected by every endpoint
func (s *Service) Revoke(token string) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.revoked[token] = true
}

// Submissions returns payloads posted to the form
func (s *Service) Submissions(form string) []json.RawMessage {
	s.mux.Lock()
	defer s.mux.Unlock()
	return append([]json.RawMessage(nil), s.submissions[form]...)
}

func (s *Service) isRevoked(token string) bool {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.revoked[token]
}

func (s *Service) submit(form string, payload json.RawMessage) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.submissions[form] = append(s.submissions[form], payload)
}

// Handler returns http handler serving the API under /api
func (s *Service) Handler() http.Handler {
	return &Handler{Service: s}
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

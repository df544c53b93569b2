package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/nexus/internal/ratelimit"
)

// RegisterRoutes registers all nexus routes with per-endpoint rate limit
// configuration. Write operations carry stricter limits than resolution
// traffic.
func RegisterRoutes(api huma.API, nexusHandler *NexusHandler, keyHandler *KeyHandler) {
	huma.Register(api, huma.Operation{
		Method:        http.MethodPost,
		Path:          "/api/nexus",
		Summary:       "Create nexus",
		Description:   "Creates a short-link record. Supplying a credential binds ownership; omitting it creates the record anonymously.",
		Tags:          []string{"Nexus"},
		DefaultStatus: http.StatusCreated,
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 10},
					{Window: time.Hour, Max: 100},
				},
			},
		},
	}, nexusHandler.CreateNexus)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/api/nexus/{id}",
		Summary:     "Resolve nexus",
		Description: "Resolves a short code without a password. Protected records reject with password required.",
		Tags:        []string{"Nexus"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 1000},
				},
			},
		},
	}, nexusHandler.GetNexus)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/api/nexus/{id}",
		Summary:     "Visit nexus",
		Description: "Resolves a short code, supplying the password of a protected record.",
		Tags:        []string{"Nexus"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 60},
				},
			},
		},
	}, nexusHandler.VisitNexus)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPatch,
		Path:        "/api/nexus/{id}",
		Summary:     "Update nexus",
		Description: "Merges a partial payload over a record owned by the caller.",
		Tags:        []string{"Nexus"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Scope: ratelimit.ScopeWrite,
			},
		},
	}, nexusHandler.UpdateNexus)

	huma.Register(api, huma.Operation{
		Method:      http.MethodDelete,
		Path:        "/api/nexus/{id}",
		Summary:     "Delete nexus",
		Description: "Removes a record owned by the caller.",
		Tags:        []string{"Nexus"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Scope: ratelimit.ScopeWrite,
			},
		},
	}, nexusHandler.DeleteNexus)

	huma.Register(api, huma.Operation{
		Method:        http.MethodPost,
		Path:          "/api/user/api-key",
		Summary:       "Issue API key",
		Description:   "Issues or rotates the caller's API key. The plaintext secret is shown once.",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusCreated,
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Hour, Max: 10},
				},
			},
		},
	}, keyHandler.IssueKey)
}

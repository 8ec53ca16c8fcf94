package net

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceLink(t *testing.T) {
	tests := []struct {
		name     string
		service  Service
		wantName string
		wantLink string
		wantOK   bool
	}{
		{
			name:     "advertised deck",
			service:  Service{Instance: "laptop._flipcards._tcp.local.", Addr: "192.168.1.5:8888", Info: []string{"name=Verbs", "id=abc"}},
			wantName: "Verbs",
			wantLink: "flipcards://192.168.1.5:8888/abc",
			wantOK:   true,
		},
		{
			name:     "no id",
			service:  Service{Instance: "laptop", Addr: "192.168.1.5:8888", Info: []string{"name=Verbs"}},
			wantName: "Verbs",
		},
		{
			name:     "no name",
			service:  Service{Instance: "laptop", Addr: "10.0.0.2:9000", Info: []string{"id=xyz"}},
			wantName: "laptop",
			wantLink: "flipcards://10.0.0.2:9000/xyz",
			wantOK:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantName, tt.service.Name())
			link, ok := tt.service.Link()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantLink, link)
			if ok {
				addr, id, err := ParseLink(link)
				assert.NoError(t, err)
				assert.Equal(t, tt.service.Addr, addr)
				assert.NotEmpty(t, id)
			}
		})
	}
}

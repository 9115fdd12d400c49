package models

import (
	"testing"
	"time"
)

func TestSessionValidation(t *testing.T) {
	tests := []struct {
		name    string
		session Session
		wantErr bool
	}{
		{
			name: "valid session",
			session: Session{
				ProjectPath: "/home/dev/invoice",
				Description: "Session for invoice",
				Status:      StatusActive,
				StartedAt:   time.Now(),
				LastActive:  time.Now(),
			},
			wantErr: false,
		},
		{
			name: "missing project path",
			session: Session{
				Status: StatusActive,
			},
			wantErr: true,
		},
		{
			name: "missing status",
			session: Session{
				ProjectPath: "/home/dev/invoice",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.session.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

package config

import "testing"

func validConfig(env string) *Config {
	return &Config{
		Server:      ServerConfig{Environment: env},
		Admin:       AdminConfig{Secret: "admin", JWTSecret: "signing-key"},
		Persistence: PersistenceConfig{Backend: PersistenceFile},
		Keywords:    DefaultKeywordsConfig(),
	}
}

func TestValidate_ProductionSecrets(t *testing.T) {
	tests := []struct {
		name      string
		env       string
		secret    string
		jwtSecret string
		wantErr   bool
	}{
		{"production with secrets", "production", "admin", "signing-key", false},
		{"production without admin secret", "production", "", "signing-key", true},
		{"production without jwt secret", "production", "admin", "", true},
		{"production with placeholder jwt secret", "production", "admin", DefaultJWTSecret, true},
		{"development with placeholder jwt secret", "development", "", DefaultJWTSecret, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(tt.env)
			cfg.Admin.Secret = tt.secret
			cfg.Admin.JWTSecret = tt.jwtSecret

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_MinIOBackendNeedsStorage(t *testing.T) {
	cfg := validConfig("development")
	cfg.Persistence.Backend = PersistenceMinIO
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when minio backend is used without storage")
	}
	cfg.Storage.Enabled = true
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

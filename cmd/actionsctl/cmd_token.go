package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/network-actions-api/internal/models"
	"github.com/noah-isme/network-actions-api/internal/service"
	"github.com/noah-isme/network-actions-api/pkg/config"
)

// tokenOptions holds flags for `actionsctl token`.
type tokenOptions struct {
	models.IssueTokenRequest
	role   string
	secret string
	issuer string
	ttl    time.Duration
}

func newTokenCmd() *cobra.Command {
	opts := &tokenOptions{}
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign an access token for an identity",
		Long: `Sign a bearer token the API accepts for the given identity.

The signing secret and issuer default to JWT_SECRET and JWT_ISSUER from the
environment or .env file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToken(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.UserID, "user", "", "user id (required)")
	f.StringVar(&opts.role, "role", string(models.RoleContributor), "role: admin, general_coordinator, subnet_coordinator, manager or contributor")
	f.StringVar(&opts.Network, "network", "", "network code")
	f.StringVar(&opts.Center, "center", "", "center code")
	f.StringVar(&opts.secret, "secret", "", "signing secret (defaults to JWT_SECRET)")
	f.StringVar(&opts.issuer, "issuer", "", "issuer (defaults to JWT_ISSUER)")
	f.DurationVar(&opts.ttl, "ttl", 0, "token lifetime (defaults to JWT_EXPIRATION)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func runToken(cmd *cobra.Command, opts *tokenOptions) error {
	authCfg := service.AuthConfig{AccessTokenSecret: opts.secret, Issuer: opts.issuer, AccessTokenExpiry: opts.ttl}
	if authCfg.AccessTokenSecret == "" || authCfg.Issuer == "" || authCfg.AccessTokenExpiry == 0 {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if authCfg.AccessTokenSecret == "" {
			authCfg.AccessTokenSecret = cfg.JWT.Secret
		}
		if authCfg.Issuer == "" {
			authCfg.Issuer = cfg.JWT.Issuer
		}
		if authCfg.AccessTokenExpiry == 0 {
			authCfg.AccessTokenExpiry = cfg.JWT.Expiration
		}
	}

	req := opts.IssueTokenRequest
	req.Role = models.UserRole(opts.role)
	if !knownRole(req.Role) {
		return fmt.Errorf("unknown role %q", opts.role)
	}

	resp, err := service.NewAuthService(nil, logger, authCfg).Issue(req)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), resp.AccessToken)
	return nil
}

func knownRole(role models.UserRole) bool {
	for _, r := range models.KnownRoles {
		if r == role {
			return true
		}
	}
	return false
}

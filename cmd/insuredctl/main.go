// Command insuredctl is the operator tool for the insured API: schema setup,
// CPF checks and token inspection.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/redmonkez12/insured-api/internal/auth"
	"github.com/redmonkez12/insured-api/internal/config"
	"github.com/redmonkez12/insured-api/internal/cpf"
	"github.com/redmonkez12/insured-api/internal/database"
)

var errInvalidCPF = errors.New("one or more CPFs are invalid")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "insuredctl",
		Short:        "Operate the insured API",
		SilenceUsage: true,
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema if it is missing",
		Args:  cobra.NoArgs,
		RunE:  runMigrate,
	}
	migrateCmd.Flags().Duration("timeout", 30*time.Second, "Connection and migration timeout")

	cpfCmd := &cobra.Command{
		Use:   "cpf",
		Short: "CPF utilities",
	}
	cpfCmd.AddCommand(
		&cobra.Command{
			Use:   "validate CPF...",
			Short: "Validate one or more CPFs (punctuation allowed)",
			Args:  cobra.MinimumNArgs(1),
			RunE:  runCPFValidate,
		},
		&cobra.Command{
			Use:   "complete BASE",
			Short: "Append the two check digits to a nine digit base",
			Args:  cobra.ExactArgs(1),
			RunE:  runCPFComplete,
		},
	)

	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Token utilities",
	}
	tokenCmd.AddCommand(&cobra.Command{
		Use:   "inspect TOKEN",
		Short: "Verify a token with the configured key and print its claims",
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenInspect,
	})

	rootCmd.AddCommand(migrateCmd, cpfCmd, tokenCmd)
	return rootCmd
}

func runMigrate(cmd *cobra.Command, args []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Database.Driver != config.StoragePostgres {
		return fmt.Errorf("migrate needs STORAGE_DRIVER=%s, got %s", config.StoragePostgres, cfg.Database.Driver)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	db, err := database.Open(ctx, cfg.Database.ConnectionString(), 1, 1)
	if err != nil {
		printFail(cmd.ErrOrStderr(), "failed", err.Error())
		return err
	}
	defer db.Close()

	if err := database.CreateSchema(ctx, db); err != nil {
		printFail(cmd.ErrOrStderr(), "failed", err.Error())
		return err
	}

	printOK(cmd.OutOrStdout(), "schema ready", cfg.Database.DBName)
	return nil
}

func runCPFValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	invalid := 0

	for _, raw := range args {
		if err := cpf.Validate(raw); err != nil {
			invalid++
			printFail(out, "invalid", fmt.Sprintf("%s (%v)", raw, err))
			continue
		}
		printOK(out, "valid", cpf.Normalize(raw))
	}

	if invalid > 0 {
		return errInvalidCPF
	}
	return nil
}

func runCPFComplete(cmd *cobra.Command, args []string) error {
	base := cpf.Normalize(args[0])
	if len(base) != cpf.Length-2 {
		return fmt.Errorf("base must have %d digits, got %d", cpf.Length-2, len(base))
	}

	dv1, dv2 := cpf.CheckDigits(base)
	full := fmt.Sprintf("%s%d%d", base, dv1, dv2)

	if err := cpf.Validate(full); err != nil {
		printFail(cmd.OutOrStdout(), "unusable", fmt.Sprintf("%s (%v)", full, err))
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), full)
	return nil
}

func runTokenInspect(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.Auth.TokenAlgorithm, cfg.Auth.TokenSigningKey)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	claims, err := tokens.VerifyToken(args[0])
	if err != nil {
		printFail(out, "rejected", err.Error())
		return err
	}

	printTitle(out, "token accepted")
	printField(out, "subject", claims.SubjectID.String())
	printField(out, "type", string(claims.TokenType))
	printField(out, "id", claims.TokenID)
	printField(out, "issued_at", claims.IssuedAt.UTC().Format(time.RFC3339))
	printField(out, "expires_at", claims.ExpiresAt.UTC().Format(time.RFC3339))
	return nil
}

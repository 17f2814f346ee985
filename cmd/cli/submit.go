package main

import (
	"encoding/json"
	"fmt"

	"github.com/luminfeed/waitlist-service/config"
	"github.com/luminfeed/waitlist-service/domain/waitlist"
	apperrors "github.com/luminfeed/waitlist-service/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	submitEmail        string
	submitCustomerType string
)

// submitCmd sends one entry through the same path as POST /v1/waitlist
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit one entry through the configured backend",
	Long: `Validate and submit one waitlist entry through the configured backend, exactly as the
HTTP endpoint would. Accepted entries are appended to the fallback list.`,
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().StringVar(&submitEmail, "email", "", "Email address to add")
	submitCmd.Flags().StringVar(&submitCustomerType, "customer-type", "", "Customer type (e.g. creator, business)")
	_ = submitCmd.MarkFlagRequired("email")
	_ = submitCmd.MarkFlagRequired("customer-type")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	appConfig, err := config.LoadApplicationConfiguration(logger, false)
	if err != nil {
		return err
	}
	defer appConfig.Cleanup()

	service := waitlist.NewWaitlistServiceFactory(appConfig).CreateService()

	entry, err := service.Submit(cmd.Context(), &waitlist.SubmitWaitlistRequest{
		Email:        submitEmail,
		CustomerType: submitCustomerType,
	})
	if err != nil {
		return fmt.Errorf("%s (%d)", apperrors.GetHumanReadableMessage(err), apperrors.HTTPStatusCode(err))
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(entry)
}

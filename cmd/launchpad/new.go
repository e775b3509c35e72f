package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/launchpad/pkg/billing"
	"github.com/arthur-debert/launchpad/pkg/config"
	"github.com/arthur-debert/launchpad/pkg/params"
	"github.com/arthur-debert/launchpad/pkg/pipeline"
	"github.com/arthur-debert/launchpad/pkg/shell"
)

func newNewCmd() *cobra.Command {
	var (
		templateRoot string
		price        float64
	)

	cmd := &cobra.Command{
		Use:     "new [name] [domain] [title]",
		Short:   MsgNewShort,
		Long:    MsgNewLong,
		Example: MsgNewExample,
		Args:    cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := config.Load()
			if err != nil {
				return err
			}

			opts := params.Options{
				Input:  cmd.InOrStdin(),
				Output: cmd.OutOrStdout(),
				// Ask for a price only in fully interactive runs; an
				// empty answer keeps the amount customer-chosen.
				PromptPrice: len(args) == 0 && !cmd.Flags().Changed("price"),
			}
			if cmd.Flags().Changed("price") {
				opts.Price = &price
			}

			p, err := params.Collect(args, opts)
			if err != nil {
				return err
			}

			pl := &pipeline.Pipeline{
				Credentials:  creds,
				Billing:      billing.New(creds.StripeSecret),
				Runner:       shell.NewRunner(),
				TemplateRoot: templateRoot,
			}

			result, err := pl.Run(cmd.Context(), p)
			if err != nil {
				return err
			}

			pterm.Success.Printfln("Project %s created at %s", p.Name, result.ProjectRoot)
			pterm.Success.Printfln("Payment link: %s", result.PaymentLinkURL)

			for _, warning := range result.Warnings {
				if warning.Remedy != "" {
					pterm.Warning.Printfln("%s; run manually from %s: %s", warning.Message, result.ProjectRoot, warning.Remedy)
				} else {
					pterm.Warning.Println(warning.Message)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&templateRoot, "template", "t", "template", MsgNewFlagTemplate)
	cmd.Flags().Float64VarP(&price, "price", "p", 0, MsgNewFlagPrice)

	return cmd
}

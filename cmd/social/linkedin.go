package main

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/raezil/social-go/internal/config"
	"github.com/raezil/social-go/linkedin"
)

func newLinkedInClient() (*linkedin.Client, error) {
	if cfg.LinkedIn.AccessToken == "" {
		return nil, errors.Errorf("missing LinkedIn access token: set %s or linkedin.access_token", config.EnvLinkedInToken)
	}
	opts := []linkedin.Option{
		linkedin.WithHTTPClient(httpClient()),
		linkedin.WithMetrics(metrics),
	}
	if u := pick(baseURL, cfg.LinkedIn.BaseURL); u != "" {
		opts = append(opts, linkedin.WithBaseURL(u))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, linkedin.WithUserAgent(cfg.UserAgent))
	}
	return linkedin.NewClient(cfg.LinkedIn.AccessToken, opts...), nil
}

func intArg(s, name string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Errorf("%s must be a number, got %q", name, s)
	}
	return n, nil
}

func linkedinCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linkedin",
		Short: "LinkedIn profile and company operations",
	}

	profile := &cobra.Command{
		Use:   "profile [MEMBER_ID]",
		Short: "Show a member profile, or your own without an ID",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newLinkedInClient()
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd.Context())
			defer cancel()
			var p *linkedin.Profile
			if len(args) == 1 {
				p, err = c.GetProfileByID(ctx, args[0])
			} else {
				p, err = c.GetUserProfile(ctx)
			}
			if err != nil {
				return err
			}
			return printJSON(p)
		},
	}

	company := &cobra.Command{
		Use:   "company ID|UNIVERSAL_NAME",
		Short: "Show a company by numeric ID or universal name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newLinkedInClient()
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd.Context())
			defer cancel()
			var co *linkedin.Company
			if id, convErr := strconv.Atoi(args[0]); convErr == nil {
				co, err = c.GetCompany(ctx, id)
			} else {
				co, err = c.GetCompanyByUniversalName(ctx, args[0])
			}
			if err != nil {
				return err
			}
			return printJSON(co)
		},
	}

	var start, count int
	products := &cobra.Command{
		Use:   "products COMPANY_ID",
		Short: "List a page of a company's products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			companyID, err := intArg(args[0], "COMPANY_ID")
			if err != nil {
				return err
			}
			c, err := newLinkedInClient()
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd.Context())
			defer cancel()
			p, err := c.GetProducts(ctx, companyID, start, count)
			if err != nil {
				return err
			}
			return printJSON(p)
		},
	}
	products.Flags().IntVar(&start, "start", 0, "index of the first product")
	products.Flags().IntVar(&count, "count", 0, "page size")

	recommendations := &cobra.Command{
		Use:   "recommendations COMPANY_ID PRODUCT_ID",
		Short: "List the recommendations of a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			companyID, err := intArg(args[0], "COMPANY_ID")
			if err != nil {
				return err
			}
			productID, err := intArg(args[1], "PRODUCT_ID")
			if err != nil {
				return err
			}
			c, err := newLinkedInClient()
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd.Context())
			defer cancel()
			recs, err := c.GetProductRecommendations(ctx, companyID, productID)
			if err != nil {
				return err
			}
			return printJSON(recs)
		},
	}

	cmd.AddCommand(profile, company, products, recommendations)
	return cmd
}

package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/raezil/social-go/facebook"
	"github.com/raezil/social-go/internal/config"
)

func newFacebookClient() (*facebook.Client, error) {
	if cfg.Facebook.AccessToken == "" {
		return nil, errors.Errorf("missing Facebook access token: set %s or facebook.access_token", config.EnvFacebookToken)
	}
	opts := []facebook.Option{
		facebook.WithHTTPClient(httpClient()),
		facebook.WithMetrics(metrics),
	}
	if u := pick(baseURL, cfg.Facebook.BaseURL); u != "" {
		opts = append(opts, facebook.WithBaseURL(u))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, facebook.WithUserAgent(cfg.UserAgent))
	}
	return facebook.NewClient(cfg.Facebook.AccessToken, opts...), nil
}

func facebookCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "facebook",
		Short: "Facebook Graph group operations",
	}

	var all bool
	var limit int
	members := &cobra.Command{
		Use:   "members GROUP_ID",
		Short: "List the members of a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newFacebookClient()
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd.Context())
			defer cancel()
			if all {
				list, err := c.Groups.GetAllMembers(ctx, args[0], limit)
				if err != nil {
					return err
				}
				return printJSON(list)
			}
			if limit > 0 {
				page, err := c.Groups.GetMembersPage(ctx, args[0], facebook.PagingParameters{Limit: limit})
				if err != nil {
					return err
				}
				return printJSON(page)
			}
			list, err := c.Groups.GetMembers(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(list)
		},
	}
	members.Flags().BoolVar(&all, "all", false, "follow paging links and list every member")
	members.Flags().IntVar(&limit, "limit", 0, "page size, or the member cap with --all")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "group GROUP_ID",
			Short: "Show a group",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := newFacebookClient()
				if err != nil {
					return err
				}
				ctx, cancel := withTimeout(cmd.Context())
				defer cancel()
				g, err := c.Groups.GetGroup(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(g)
			},
		},
		members,
		&cobra.Command{
			Use:   "memberships",
			Short: "List the groups of the authenticated user",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := newFacebookClient()
				if err != nil {
					return err
				}
				ctx, cancel := withTimeout(cmd.Context())
				defer cancel()
				ms, err := c.Groups.GetMemberships(ctx)
				if err != nil {
					return err
				}
				return printJSON(ms)
			},
		},
		&cobra.Command{
			Use:   "post GROUP_ID MESSAGE",
			Short: "Post a message to a group feed",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := newFacebookClient()
				if err != nil {
					return err
				}
				ctx, cancel := withTimeout(cmd.Context())
				defer cancel()
				id, err := c.Groups.PostToGroup(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Println(id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete POST_ID",
			Short: "Delete a post",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := newFacebookClient()
				if err != nil {
					return err
				}
				ctx, cancel := withTimeout(cmd.Context())
				defer cancel()
				return c.Groups.DeletePost(ctx, args[0])
			},
		},
	)
	return cmd
}

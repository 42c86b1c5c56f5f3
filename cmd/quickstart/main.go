package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http/httptest"
	"os"

	"github.com/raezil/social-go/facebook"
	"github.com/raezil/social-go/internal/twin"
	"github.com/raezil/social-go/linkedin"
)

func main() {
	useTwin := flag.Bool("twin", false, "run against an in-process API twin instead of the real services")
	group := flag.String("group", "213106022036379", "Facebook group ID")
	company := flag.Int("company", 1337, "LinkedIn company ID")
	product := flag.Int("product", 5001, "LinkedIn product ID")
	flag.Parse()

	fbToken := os.Getenv("FACEBOOK_ACCESS_TOKEN")
	liToken := os.Getenv("LINKEDIN_ACCESS_TOKEN")
	var fbOpts []facebook.Option
	var liOpts []linkedin.Option
	if *useTwin {
		srv := httptest.NewServer(twin.New(twin.NewStore(twin.DefaultFixture())))
		defer srv.Close()
		fbToken, liToken = "twin-token", "twin-token"
		fbOpts = append(fbOpts, facebook.WithBaseURL(srv.URL+"/facebook"))
		liOpts = append(liOpts, linkedin.WithBaseURL(srv.URL+"/linkedin"))
	}
	if fbToken == "" || liToken == "" {
		fmt.Fprintln(os.Stderr, "missing tokens: set FACEBOOK_ACCESS_TOKEN and LINKEDIN_ACCESS_TOKEN, or pass -twin")
		os.Exit(2)
	}

	ctx := context.Background()
	fb := facebook.NewClient(fbToken, fbOpts...)
	li := linkedin.NewClient(liToken, liOpts...)

	g, err := fb.Groups.GetGroup(ctx, *group)
	if err != nil {
		panic(err)
	}
	members, err := fb.Groups.GetMembers(ctx, *group)
	if err != nil {
		panic(err)
	}

	// Recommendations are looked up through the company's product pages.
	recs, err := li.GetProductRecommendations(ctx, *company, *product)
	if err != nil {
		panic(err)
	}

	out, _ := json.MarshalIndent(map[string]any{
		"group":           g,
		"members":         members,
		"recommendations": recs,
	}, "", "  ")
	fmt.Println(string(out))
}

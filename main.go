package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/raezil/social-go/facebook"
)

func main() {
	client := facebook.NewClient(os.Getenv("FACEBOOK_ACCESS_TOKEN"))

	group, err := client.Groups.GetGroup(context.Background(), "213106022036379")
	if err != nil {
		panic(err)
	}
	members, err := client.Groups.GetMembers(context.Background(), group.ID)
	if err != nil {
		panic(err)
	}

	out, _ := json.MarshalIndent(map[string]any{"group": group, "members": members}, "", "  ")
	fmt.Printf("%s\n", out)
}

package main

import (
	"fmt"
	"net/url"

	"github.com/urfave/cli/v2"
)

var (
	webhook = cli.Command{
		Name:  "webhook",
		Usage: "add or remove webhooks",
		Subcommands: []*cli.Command{
			webhookAddCmd, webhookRemoveCmd,
		},
	}
	listwebhooks = cli.Command{
		Name:  "webhooks",
		Usage: "list all webhooks, optionally filtered by target event",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "event",
				Usage: "the event to filter hooks by",
			},
		},
		Action: listWebhooksAction,
	}

	webhookAddCmd = &cli.Command{
		Name:  "add",
		Usage: "add a webhook registered for some event",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "endpoint",
				Usage:    "the endpoint where to notify the webhook",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "secret",
				Usage: "the eventual secret to authenticate requests",
			},
			&cli.StringFlag{
				Name: "event",
				Usage: "one of DEAL_INITIALIZED, DEAL_FUNDED, DEAL_SETTLED, " +
					"DEAL_CANCELLED or * for any",
				Value: "*",
			},
		},
		Action: addWebhookAction,
	}
	webhookRemoveCmd = &cli.Command{
		Name:  "remove",
		Usage: "remove some webhook",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "id",
				Usage:    "the id of the webhook to remove",
				Required: true,
			},
		},
		Action: removeWebhookAction,
	}
)

func addWebhookAction(ctx *cli.Context) error {
	client, err := getDaemonClient()
	if err != nil {
		return err
	}

	reply, err := client.post("/v1/webhooks", map[string]string{
		"topic":    ctx.String("event"),
		"endpoint": ctx.String("endpoint"),
		"secret":   ctx.String("secret"),
	})
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func removeWebhookAction(ctx *cli.Context) error {
	client, err := getDaemonClient()
	if err != nil {
		return err
	}

	hookID := ctx.String("id")
	if _, err := client.delete("/v1/webhooks/" + url.PathEscape(hookID)); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("removed webhook with id:", hookID)
	return nil
}

func listWebhooksAction(ctx *cli.Context) error {
	client, err := getDaemonClient()
	if err != nil {
		return err
	}

	path := "/v1/webhooks"
	if event := ctx.String("event"); event != "" {
		path += "?topic=" + url.QueryEscape(event)
	}

	reply, err := client.get(path)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

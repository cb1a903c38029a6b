package main

import (
	"fmt"
	"net/url"

	"github.com/urfave/cli/v2"
)

var (
	ownerFlag = &cli.StringFlag{
		Name:     "owner",
		Usage:    "the owner of the holding",
		Required: true,
	}
	assetFlag = &cli.StringFlag{
		Name:     "asset",
		Usage:    "the asset of the holding",
		Required: true,
	}
)

var ledger = cli.Command{
	Name:  "ledger",
	Usage: "inspect or administer the holdings of the local ledger",
	Subcommands: []*cli.Command{
		{
			Name:   "balance",
			Usage:  "get the holding of an owner for an asset",
			Flags:  []cli.Flag{ownerFlag, assetFlag},
			Action: ledgerBalanceAction,
		},
		{
			Name:  "credit",
			Usage: "mint an amount into a holding (operator)",
			Flags: []cli.Flag{
				ownerFlag,
				assetFlag,
				&cli.Uint64Flag{
					Name:     "amount",
					Usage:    "the amount to credit",
					Required: true,
				},
			},
			Action: ledgerCreditAction,
		},
		{
			Name:   "freeze",
			Usage:  "block transfers from or to a holding (operator)",
			Flags:  []cli.Flag{ownerFlag, assetFlag},
			Action: ledgerFreezeAction("freeze"),
		},
		{
			Name:   "unfreeze",
			Usage:  "unblock a frozen holding (operator)",
			Flags:  []cli.Flag{ownerFlag, assetFlag},
			Action: ledgerFreezeAction("unfreeze"),
		},
	},
}

func ledgerBalanceAction(ctx *cli.Context) error {
	client, err := getDaemonClient()
	if err != nil {
		return err
	}

	reply, err := client.get(fmt.Sprintf(
		"/v1/ledger/%s/%s",
		url.PathEscape(ctx.String("owner")), url.PathEscape(ctx.String("asset")),
	))
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func ledgerCreditAction(ctx *cli.Context) error {
	client, err := getDaemonClient()
	if err != nil {
		return err
	}

	reply, err := client.post("/v1/ledger/credit", map[string]interface{}{
		"owner":  ctx.String("owner"),
		"asset":  ctx.String("asset"),
		"amount": ctx.Uint64("amount"),
	})
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func ledgerFreezeAction(action string) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		client, err := getDaemonClient()
		if err != nil {
			return err
		}

		reply, err := client.post("/v1/ledger/"+action, map[string]interface{}{
			"owner": ctx.String("owner"),
			"asset": ctx.String("asset"),
		})
		if err != nil {
			return err
		}

		printRespJSON(reply)
		return nil
	}
}

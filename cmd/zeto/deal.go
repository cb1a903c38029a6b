package main

import (
	"fmt"
	"net/url"
	"time"

	"github.com/thanhpk/randstr"
	"github.com/urfave/cli/v2"
)

var dealIDFlag = &cli.StringFlag{
	Name:     "id",
	Usage:    "the hex id or the label of the deal",
	Required: true,
}

var deal = cli.Command{
	Name:  "deal",
	Usage: "initialize, fund, settle, cancel or inspect escrow deals",
	Subcommands: []*cli.Command{
		dealInitCmd,
		dealTransitionCmd("fund", "fund the deal vault with the base amount (seller)"),
		dealTransitionCmd("settle", "pay the quote amount and receive the base one (buyer)"),
		dealTransitionCmd("cancel", "cancel the deal and get refunded if funded (seller)"),
		dealTransitionCmd("reclaim", "refund the seller of an expired deal (anyone)"),
		dealGetCmd,
		dealListCmd,
		dealEventsCmd,
		dealQuoteCmd,
	},
}

var dealInitCmd = &cli.Command{
	Name:  "init",
	Usage: "initialize a new deal as seller",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "id",
			Usage: "the label of the deal, a random one is generated if missing",
		},
		&cli.StringFlag{
			Name:     "buyer",
			Usage:    "the identity of the buyer",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "base_asset",
			Usage:    "the asset sold",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "quote_asset",
			Usage:    "the asset paid by the buyer",
			Required: true,
		},
		&cli.Uint64Flag{
			Name:     "base_amount",
			Usage:    "the amount of base asset sold",
			Required: true,
		},
		&cli.Uint64Flag{
			Name:     "quote_amount",
			Usage:    "the amount of quote asset paid",
			Required: true,
		},
		&cli.DurationFlag{
			Name:  "expiry",
			Usage: "the lifetime of the deal",
			Value: 24 * time.Hour,
		},
		&cli.StringFlag{
			Name:  "fee_recipient",
			Usage: "the recipient of the fees, defaults to the daemon one",
		},
	},
	Action: dealInitAction,
}

var dealGetCmd = &cli.Command{
	Name:   "get",
	Usage:  "get the deal with the given id",
	Flags:  []cli.Flag{dealIDFlag},
	Action: dealGetAction,
}

var dealListCmd = &cli.Command{
	Name:  "list",
	Usage: "list deals, optionally filtered by status or party",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "status",
			Usage: "one of initialized, funded, settled or cancelled",
		},
		&cli.StringFlag{
			Name:  "party",
			Usage: "the identity of the seller or buyer",
		},
	},
	Action: dealListAction,
}

var dealEventsCmd = &cli.Command{
	Name:   "events",
	Usage:  "list the events of the given deal",
	Flags:  []cli.Flag{dealIDFlag},
	Action: dealEventsAction,
}

var dealQuoteCmd = &cli.Command{
	Name:   "quote",
	Usage:  "show the amounts that settling the deal would move",
	Flags:  []cli.Flag{dealIDFlag},
	Action: dealQuoteAction,
}

func dealTransitionCmd(name, usage string) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: []cli.Flag{dealIDFlag},
		Action: func(ctx *cli.Context) error {
			client, err := getDaemonClient()
			if err != nil {
				return err
			}

			reply, err := client.post(dealPath(ctx.String("id"), name), nil)
			if err != nil {
				return err
			}

			printRespJSON(reply)
			return nil
		},
	}
}

func dealInitAction(ctx *cli.Context) error {
	client, err := getDaemonClient()
	if err != nil {
		return err
	}

	id := ctx.String("id")
	if id == "" {
		id = randstr.Hex(16)
	}

	reply, err := client.post("/v1/deals", map[string]interface{}{
		"id":            id,
		"buyer":         ctx.String("buyer"),
		"base_asset":    ctx.String("base_asset"),
		"quote_asset":   ctx.String("quote_asset"),
		"base_amount":   ctx.Uint64("base_amount"),
		"quote_amount":  ctx.Uint64("quote_amount"),
		"expiry_time":   time.Now().Add(ctx.Duration("expiry")).Unix(),
		"fee_recipient": ctx.String("fee_recipient"),
	})
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func dealGetAction(ctx *cli.Context) error {
	client, err := getDaemonClient()
	if err != nil {
		return err
	}

	reply, err := client.get(dealPath(ctx.String("id"), ""))
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func dealListAction(ctx *cli.Context) error {
	client, err := getDaemonClient()
	if err != nil {
		return err
	}

	query := url.Values{}
	if status := ctx.String("status"); status != "" {
		query.Set("status", status)
	}
	if party := ctx.String("party"); party != "" {
		query.Set("party", party)
	}
	path := "/v1/deals"
	if len(query) > 0 {
		path = fmt.Sprintf("%s?%s", path, query.Encode())
	}

	reply, err := client.get(path)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func dealEventsAction(ctx *cli.Context) error {
	client, err := getDaemonClient()
	if err != nil {
		return err
	}

	reply, err := client.get(dealPath(ctx.String("id"), "events"))
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func dealQuoteAction(ctx *cli.Context) error {
	client, err := getDaemonClient()
	if err != nil {
		return err
	}

	reply, err := client.get(dealPath(ctx.String("id"), "quote"))
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func dealPath(id, action string) string {
	path := "/v1/deals/" + url.PathEscape(id)
	if action != "" {
		path += "/" + action
	}
	return path
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/smppctl/internal/auth"
	"github.com/danmuck/smppctl/internal/client"
	"github.com/danmuck/smppctl/internal/config"
	"github.com/danmuck/smppctl/internal/logging"
	"github.com/danmuck/smppctl/internal/observability"
	"github.com/danmuck/smppctl/internal/protocol"
	"github.com/danmuck/smppctl/internal/protocol/pdu"
	"github.com/danmuck/smppctl/internal/protocol/schema"
	"github.com/danmuck/smppctl/internal/server"
	"github.com/rs/zerolog/log"
)

func main() {
	opts, err := parseOptions(os.Args[1:], os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "smppctl: %v\n", err)
		os.Exit(2)
	}
	logging.ConfigureRuntime()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "smppctl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	file, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.PrintConfig != "" {
		out, err := config.Render(file, opts.PrintConfig)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	}
	if err := logging.SetLevel(file.LogLevel); err != nil {
		return err
	}
	cfg, err := file.ClientConfig()
	if err != nil {
		return err
	}
	observability.RegisterMetrics()

	c, err := client.New(cfg, client.WithHandlers(handlers()))
	if err != nil {
		return err
	}

	metricsAddr := opts.MetricsAddr
	if metricsAddr == "" {
		metricsAddr = file.MetricsAddr
	}
	if metricsAddr != "" {
		var serverOpts []server.Option
		if file.StatusToken != "" {
			serverOpts = append(serverOpts, server.WithAuth(auth.StaticToken{Token: file.StatusToken}))
		}
		status := server.New("smppctl", metricsAddr, c, serverOpts...)
		go func() {
			if err := status.ListenAndServe(ctx); err != nil {
				log.Error().Msgf("smppctl status server err=%v", err)
			}
		}()
	}

	if err := c.Connect(ctx); err != nil {
		return err
	}
	defer c.Disconnect()

	if err := bind(ctx, c, file); err != nil {
		return err
	}
	defer unbind(c)

	if opts.sending() {
		if err := sendOne(ctx, c, file, opts); err != nil {
			return err
		}
	}
	if opts.Listen {
		return c.Listen(ctx)
	}
	return nil
}

func bind(ctx context.Context, c *client.Client, file config.File) error {
	params := file.BindParams()
	var err error
	switch file.BindCommand() {
	case protocol.BindTransmitter:
		_, err = c.BindTransmitter(ctx, params)
	case protocol.BindReceiver:
		_, err = c.BindReceiver(ctx, params)
	default:
		_, err = c.BindTransceiver(ctx, params)
	}
	return err
}

// unbind runs on a fresh context so an interrupted run still unbinds.
func unbind(c *client.Client) {
	if !c.State().Bound() {
		return
	}
	if _, err := c.Unbind(context.Background()); err != nil {
		log.Warn().Msgf("smppctl unbind err=%v", err)
	}
}

// sendOne submits the message and reads until every part is answered.
func sendOne(ctx context.Context, c *client.Client, file config.File, opts options) error {
	src := file.SourceAddress()
	if opts.From != "" {
		src.Addr = opts.From
	}
	sent, err := c.SendMessage(ctx, client.Message{
		Source:      src,
		Destination: client.Address{TON: protocol.TONInternational, NPI: protocol.NPIISDN, Addr: opts.To},
		Text:        opts.Text,
		Coding:      opts.Coding,
	})
	if err != nil {
		return err
	}
	log.Info().Msgf("smppctl sent to=%q parts=%d", opts.To, len(sent))
	for len(c.Pending()) > 0 {
		if err := c.ReadOnce(ctx); err != nil {
			if client.Recoverable(err) {
				log.Warn().Msgf("smppctl skipping pdu err=%v", err)
				continue
			}
			var status protocol.StatusError
			if errors.As(err, &status) {
				return fmt.Errorf("submit rejected: %w", err)
			}
			return err
		}
	}
	return nil
}

func handlers() client.Handlers {
	return client.Handlers{
		OnSent: func(p *pdu.PDU) {
			log.Info().Msgf("smppctl submit_sm_resp seq=%d message_id=%q", p.Sequence, p.String(schema.FieldMessageID))
		},
		OnText: func(source, text string) {
			fmt.Printf("%s: %s\n", source, text)
		},
		OnQuery: func(p *pdu.PDU) {
			log.Info().Msgf("smppctl query_sm_resp message_id=%q state=%d", p.String(schema.FieldMessageID), p.Int(schema.FieldMessageState))
		},
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	sigcheck "sigcheck-go"
	"sigcheck-go/config"
	sighttp "sigcheck-go/http"
	"sigcheck-go/logger"
	"sigcheck-go/mechanisms/evm"
	evmsigners "sigcheck-go/signers/evm"
	"sigcheck-go/types"
)

var (
	rpcURLFlag = &cli.StringFlag{
		Name:    "rpc-url",
		Aliases: []string{"rpc"},
		Usage:   "Ethereum RPC endpoint URL used for EIP-1271 calls",
		Value:   config.DefaultRPCURL,
		EnvVars: []string{config.EnvRPCURL},
	}
	debugFlag = &cli.BoolFlag{
		Name:    "debug",
		Usage:   "Log rejected signatures with their reason codes",
		EnvVars: []string{config.EnvDebug},
	}
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	app := &cli.App{
		Name:    "sigcheck",
		Usage:   "Check Ethereum signatures from EOAs and EIP-1271 contract wallets",
		Version: sigcheck.Version,
		Flags:   []cli.Flag{rpcURLFlag, debugFlag},
		Commands: []*cli.Command{
			verifyCommand(),
			serveCommand(),
			signCommand(),
			hashCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := &config.Config{
		RPCURL: c.String(rpcURLFlag.Name),
		Port:   config.DefaultPort,
		Debug:  c.Bool(debugFlag.Name),
	}
	if c.IsSet("port") {
		cfg.Port = c.Int("port")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newChecker(c *cli.Context, cfg *config.Config) (*evm.SignatureChecker, *zap.Logger, func(), error) {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: cfg.Debug})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	client, err := evmsigners.DialChainReader(c.Context, cfg.RPCURL)
	if err != nil {
		return nil, nil, nil, err
	}

	cleanup := func() {
		client.Close()
		_ = l.Sync()
	}
	return evm.NewSignatureChecker(client, evm.WithLogger(l)), l, cleanup, nil
}

func verifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "Check whether a signature over a hash was produced by a signer",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "signer", Usage: "Claimed signer address", Required: true},
			&cli.StringFlag{Name: "hash", Usage: "32-byte message hash (hex)", Required: true},
			&cli.StringFlag{Name: "signature", Usage: "Signature bytes (hex)", Required: true},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			req := &types.VerifyRequest{
				Signer:    c.String("signer"),
				Hash:      c.String("hash"),
				Signature: c.String("signature"),
			}
			signer, hash, signature, err := req.Decode()
			if err != nil {
				return err
			}

			checker, _, cleanup, err := newChecker(c, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, cancel := context.WithTimeout(c.Context, sighttp.VerifyTimeout)
			defer cancel()

			result := checker.Verify(ctx, signer, hash, signature)
			return printJSON(types.VerifyResponse{
				IsValid: result.Valid,
				Signer:  signer.Hex(),
				Method:  result.Method,
			})
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve POST /verify over HTTP",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   config.DefaultPort,
				Usage:   "HTTP server port",
				EnvVars: []string{config.EnvPort},
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			checker, l, cleanup, err := newChecker(c, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			gin.SetMode(gin.ReleaseMode)
			router := sighttp.NewRouter(checker, l)

			l.Info("sigcheck listening",
				zap.Int("port", cfg.Port),
				zap.String("rpcURL", cfg.RPCURL),
				zap.Duration("verifyTimeout", sighttp.VerifyTimeout),
				zap.Uint64("validationGasLimit", evm.ValidationGasLimit),
			)
			return router.Run(fmt.Sprintf(":%d", cfg.Port))
		},
	}
}

func signCommand() *cli.Command {
	return &cli.Command{
		Name:  "sign",
		Usage: "Sign a message with the EIP-191 personal-sign prefix",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "private-key",
				Usage:    "Hex-encoded secp256k1 private key",
				EnvVars:  []string{"SIGCHECK_PRIVATE_KEY"},
				Required: true,
			},
			&cli.StringFlag{Name: "message", Usage: "Message to sign (UTF-8)", Required: true},
		},
		Action: func(c *cli.Context) error {
			signer, err := evmsigners.NewClientSignerFromPrivateKey(c.String("private-key"))
			if err != nil {
				return err
			}
			message := []byte(c.String("message"))
			signature, err := signer.SignMessage(message)
			if err != nil {
				return err
			}
			return printJSON(types.VerifyRequest{
				Signer:    signer.Address().Hex(),
				Hash:      evm.HashPersonalMessage(message).Hex(),
				Signature: hexutil.Encode(signature),
			})
		},
	}
}

func hashCommand() *cli.Command {
	return &cli.Command{
		Name:  "hash",
		Usage: "Print the EIP-191 personal-sign hash of a message",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "message", Usage: "Message to hash (UTF-8)", Required: true},
		},
		Action: func(c *cli.Context) error {
			fmt.Println(evm.HashPersonalMessage([]byte(c.String("message"))).Hex())
			return nil
		},
	}
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// Package http exposes a SignatureChecker over HTTP.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sigcheck-go/mechanisms/evm"
	"sigcheck-go/types"
)

const (
	// VerifyTimeout bounds a whole /verify request
	VerifyTimeout = 30 * time.Second

	// maxRequestBytes caps the request body read by /verify
	maxRequestBytes = 16 << 10
)

// Verifier is the part of evm.SignatureChecker the server needs
type Verifier interface {
	Verify(ctx context.Context, signer common.Address, hash common.Hash, signature []byte) evm.Verification
}

// NewRouter returns a gin engine serving
//
//	GET  /health
//	POST /verify   {"signer", "hash", "signature"} -> {"isValid", "signer", "method"}
func NewRouter(verifier Verifier, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/verify", VerifyHandler(verifier, logger))

	return r
}

// VerifyHandler answers signature checks. Rejections are a 200 with
// isValid=false; only malformed requests get an error status.
func VerifyHandler(verifier Verifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), VerifyTimeout)
		defer cancel()

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRequestBytes+1))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if len(body) > maxRequestBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
			return
		}

		req, err := types.ParseVerifyRequest(body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		signer, hash, signature, err := req.Decode()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result := verifier.Verify(ctx, signer, hash, signature)
		logger.Info("signature checked",
			zap.String("signer", signer.Hex()),
			zap.String("hash", hash.Hex()),
			zap.Bool("valid", result.Valid),
			zap.String("method", result.Method),
			zap.String("reason", result.Reason),
		)

		c.JSON(http.StatusOK, types.VerifyResponse{
			IsValid: result.Valid,
			Signer:  signer.Hex(),
			Method:  result.Method,
		})
	}
}

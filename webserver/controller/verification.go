package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/warden-bot/warden/common"
	"github.com/warden-bot/warden/verify"
)

func GetPending(verifier *verify.Service) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		pending, err := verifier.Pending()
		if err != nil {
			common.ResponseError(ctx, err)
			return
		}
		common.ResponseSuccess(ctx, gin.H{
			"Pending": pending,
		})
	}
}

func GetHealth(ctx *gin.Context) {
	common.ResponseSuccess(ctx, gin.H{
		"Status": "ok",
	})
}

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sals-backend/internal/apperr"
	"sals-backend/internal/logging"
	"sals-backend/internal/payments"
)

const (
	msgOTPSent         = "تم إرسال رمز التحقق إلى رقم الجوال المسجل في STC Pay"
	msgChargeFailed    = "فشل في إنشاء طلب الدفع"
	msgPaymentCaptured = "تم الدفع بنجاح"
	msgInvalidOTP      = "رمز التحقق غير صحيح"
	msgOTPFailed       = "فشل في التحقق من رمز التحقق"
)

type ChargeGateway interface {
	CreateCharge(ctx context.Context, req payments.ChargeRequest) (payments.Charge, error)
	SubmitOTP(ctx context.Context, chargeID, otp string) (payments.Charge, error)
}

type verifyOTPRequest struct {
	ChargeID string `json:"charge_id"`
	OTP      string `json:"otp"`
}

// respondWithGatewayError hides provider detail behind a fixed message.
func respondWithGatewayError(c *gin.Context, route string, err error, message string) {
	if errors.Is(err, apperr.ErrValidation) {
		respondWithError(c, http.StatusBadRequest, route, apperr.Message(err))
		return
	}
	reportDegraded(c, err)
	logging.WithRequest(c).WithField("route", route).WithError(err).Warn("payment gateway call failed")
	respondWithError(c, http.StatusBadRequest, route, message)
}

func CreateSTCPayPayment(gateway ChargeGateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /create-stcpay-payment"
		defer handlePanic(c, route)

		var req payments.ChargeRequest
		if err := bindOptionalJSON(c, &req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, msgInvalidBody)
			return
		}

		charge, err := gateway.CreateCharge(c.Request.Context(), req)
		if err != nil {
			respondWithGatewayError(c, route, err, msgChargeFailed)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"charge_id": charge.ID,
			"status":    charge.Status,
			"message":   msgOTPSent,
		})
	}
}

func VerifySTCPayOTP(gateway ChargeGateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /verify-stcpay-otp"
		defer handlePanic(c, route)

		var req verifyOTPRequest
		if err := bindOptionalJSON(c, &req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, msgInvalidBody)
			return
		}

		charge, err := gateway.SubmitOTP(c.Request.Context(), req.ChargeID, req.OTP)
		if err != nil {
			respondWithGatewayError(c, route, err, msgOTPFailed)
			return
		}

		if charge.Status != payments.StatusCaptured {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": msgInvalidOTP})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"status":  payments.StatusCaptured,
			"message": msgPaymentCaptured,
		})
	}
}

// STCPayWebhook acknowledges every well-formed callback, matched or not, so
// the gateway does not retry. Only a storage failure answers 500.
func STCPayWebhook(reconciler *payments.Reconciler) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /stcpay-webhook"
		defer handlePanic(c, route)

		var event payments.WebhookEvent
		if err := bindOptionalJSON(c, &event); err != nil {
			respondWithError(c, http.StatusBadRequest, route, msgInvalidBody)
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		if _, err := reconciler.ApplyWebhook(ctx, event); err != nil {
			respondWithAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

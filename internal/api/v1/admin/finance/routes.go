package finance

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/members/:id/finances", MemberFinances)
	router.POST("/members/:id/dues", AddDue)
	router.POST("/members/:id/payments", AddPayment)
	router.GET("/financial-report", FinancialReport)
}

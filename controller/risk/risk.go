package risk

import (
	"net/http"

	"pmdashboard/controller"
	"pmdashboard/dto"
	"pmdashboard/middleware"
	"pmdashboard/model"
	"pmdashboard/services"

	"github.com/gin-gonic/gin"
)

func RiskController(router *gin.Engine, svc *controller.Services) {
	routes := router.Group("/risk", middleware.AccessTokenMiddleware(svc.Tokens), middleware.RoleMiddleware(model.Managers...))
	{
		routes.POST("", func(c *gin.Context) {
			CreateRisk(c, svc)
		})
		routes.PUT("/:id", func(c *gin.Context) {
			UpdateRisk(c, svc)
		})
	}
}

func CreateRisk(c *gin.Context, svc *controller.Services) {
	actor, ok := controller.Actor(c)
	if !ok {
		return
	}
	var req dto.CreateRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.InvalidInput(c, err)
		return
	}

	risk, err := svc.Workflow.CreateRisk(c.Request.Context(), actor, services.RiskInput{
		Name:           req.Name,
		Description:    req.Description,
		Probability:    model.Level(req.Probability),
		Impact:         model.Level(req.Impact),
		MitigationPlan: req.MitigationPlan,
		ProjectID:      req.ProjectID,
		OwnerID:        req.OwnerID,
	})
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Risk created successfully", "risk": risk})
}

func UpdateRisk(c *gin.Context, svc *controller.Services) {
	actor, ok := controller.Actor(c)
	if !ok {
		return
	}
	riskID, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.InvalidInput(c, err)
		return
	}

	risk, err := svc.Workflow.UpdateRisk(c.Request.Context(), actor, riskID, req.MitigationPlan, model.RiskStatus(req.Status), controller.Version(req.Version))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Risk updated successfully", "risk": risk})
}

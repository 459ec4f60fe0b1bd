package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/talent-registration-api/internal/middleware"
)

// Routes groups the API handlers.
type Routes struct {
	Auth             *AuthHandler
	Registration     *RegistrationHandler
	Catalog          *CatalogHandler
	Evaluation       *EvaluationHandler
	DevelopmentPlans *DevelopmentPlanHandler

	// Users resolves the session user for the director guard.
	Users middleware.UserLookup
}

// Register mounts every /api route on r.
func (rt Routes) Register(r gin.IRouter) {
	api := r.Group("/api")

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/login", rt.Auth.Login)
		auth.POST("/logout", rt.Auth.Logout)
		auth.GET("/me", middleware.RequireAuth(), rt.Auth.GetCurrentUser)
	}

	// Everything else is for directors only
	admin := api.Group("")
	admin.Use(middleware.RequireAuth(), middleware.RequireDirector(rt.Users))
	{
		reg := admin.Group("/registration")
		reg.GET("/reference", rt.Registration.Reference)
		reg.POST("/transition", rt.Registration.Transition)
		reg.POST("/validate", rt.Registration.Validate)

		admin.GET("/users", rt.Registration.ListUsers)
		admin.POST("/users", rt.Registration.CreateUser)

		admin.GET("/departments", rt.Catalog.ListDepartments)
		admin.POST("/departments", rt.Catalog.CreateDepartment)
		admin.GET("/tracks", rt.Catalog.ListTracks)
		admin.POST("/tracks", rt.Catalog.CreateTrack)
		admin.GET("/job-positions", rt.Catalog.ListJobPositions)
		admin.POST("/job-positions", rt.Catalog.CreateJobPosition)
		admin.GET("/track-positions", rt.Catalog.ListTrackPositions)
		admin.POST("/track-positions", rt.Catalog.CreateTrackPosition)
		admin.GET("/teams", rt.Catalog.ListTeams)
		admin.POST("/teams", rt.Catalog.CreateTeam)

		evals := admin.Group("/evaluations")
		evals.POST("/summary", rt.Evaluation.Summary)
		evals.GET("/cycles", rt.Evaluation.ListCycles)
		evals.POST("/cycles", rt.Evaluation.CreateCycle)
		evals.GET("/cycles/current", rt.Evaluation.CurrentCycle)
		evals.PUT("/cycles/:id/open", rt.Evaluation.OpenCycle)
		evals.PUT("/cycles/:id/close", rt.Evaluation.CloseCycle)
		evals.GET("/cycles/:id/dashboard", rt.Evaluation.Dashboard)
		evals.GET("/cycles/:id/nine-box", rt.Evaluation.NineBox)
		evals.GET("/employee/:id", rt.Evaluation.EmployeeEvaluations)
		evals.GET("/check", rt.Evaluation.CheckExisting)
		evals.POST("/self", rt.Evaluation.SaveSelf)
		evals.POST("/leader", rt.Evaluation.SaveLeader)
		evals.POST("/consensus", rt.Evaluation.CreateConsensus)
		evals.PUT("/consensus/:id/complete", rt.Evaluation.CompleteConsensus)

		plans := admin.Group("/development-plans")
		plans.POST("", rt.DevelopmentPlans.CreatePlan)
		plans.POST("/suggest", rt.DevelopmentPlans.SuggestItems)
		plans.GET("/employee/:id", rt.DevelopmentPlans.GetLatestForEmployee)
		plans.PUT("/:id", rt.DevelopmentPlans.UpdatePlan)
	}
}

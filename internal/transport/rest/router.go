package rest

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi"

	"github.com/opsarif/ngo-erp/internal/activity"
	"github.com/opsarif/ngo-erp/internal/auth"
	"github.com/opsarif/ngo-erp/internal/department"
	"github.com/opsarif/ngo-erp/internal/event"
	"github.com/opsarif/ngo-erp/internal/fundraising"
	"github.com/opsarif/ngo-erp/internal/grant"
	"github.com/opsarif/ngo-erp/internal/message"
	"github.com/opsarif/ngo-erp/internal/performance"
	"github.com/opsarif/ngo-erp/internal/program"
	"github.com/opsarif/ngo-erp/internal/report"
	"github.com/opsarif/ngo-erp/internal/request"
	"github.com/opsarif/ngo-erp/internal/task"
	"github.com/opsarif/ngo-erp/internal/transport/middleware"
	"github.com/opsarif/ngo-erp/internal/transport/swagger"
	"github.com/opsarif/ngo-erp/internal/user"
)

// Handlers bundles every mounted handler so the server wiring stays in
// one place.
type Handlers struct {
	Auth        *auth.Handler
	User        *user.Handler
	Department  *department.Handler
	Task        *task.Handler
	Request     *request.Handler
	Message     *message.Handler
	Event       *event.Handler
	Fundraising *fundraising.Handler
	Program     *program.Handler
	Grant       *grant.Handler
	Performance *performance.Handler
	Activity    *activity.Handler
	Report      *report.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORSWithOrigins(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	swagger.Register(router)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		// Everything below requires a valid bearer token.
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/users/me", h.Auth.Me)

			pr.Route("/users", func(ur chi.Router) {
				ur.Post("/", h.User.CreateUser)
				ur.Get("/", h.User.ListUsers)
				ur.Get("/{id}", h.User.GetUser)
				ur.Patch("/{id}", h.User.UpdateUser)
				ur.Delete("/{id}", h.User.DeleteUser)
				ur.Get("/{id}/performance", h.Performance.UserLogs)
			})

			pr.Route("/departments", func(dr chi.Router) {
				dr.Post("/", h.Department.CreateDepartment)
				dr.Get("/", h.Department.ListDepartments)
				dr.Get("/{id}", h.Department.GetDepartment)
				dr.Patch("/{id}", h.Department.UpdateDepartment)
				dr.Delete("/{id}", h.Department.DeleteDepartment)
			})

			pr.Route("/tasks", func(tr chi.Router) {
				tr.Post("/", h.Task.CreateTask)
				tr.Get("/", h.Task.AllTasks)
				tr.Get("/my", h.Task.MyTasks)
				tr.Get("/department", h.Task.DepartmentTasks)
				tr.Get("/completed", h.Task.CompletedTasks)
				tr.Get("/{id}", h.Task.GetTask)
				tr.Patch("/{id}", h.Task.UpdateTask)
				tr.Delete("/{id}", h.Task.DeleteTask)
				tr.Post("/{id}/send-to-admin", h.Task.SendToAdmin)
				tr.Post("/{id}/comments", h.Task.CreateComment)
				tr.Get("/{id}/comments", h.Task.ListComments)
				tr.Post("/{id}/upload", h.Task.Upload)
				tr.Get("/{id}/resources", h.Task.TaskResources)
			})
			pr.Get("/resources/department/{id}", h.Task.DepartmentResources)

			pr.Route("/requests", func(rr chi.Router) {
				rr.Post("/", h.Request.CreateRequest)
				rr.Post("/leave", h.Request.CreateLeaveRequest)
				rr.Post("/procurement", h.Request.CreateProcurementRequest)
				rr.Post("/travel", h.Request.CreateTravelRequest)
				rr.Get("/", h.Request.ListRequests)
				rr.Get("/attachments/{id}/download", h.Request.DownloadAttachment)
				rr.Get("/{id}", h.Request.GetRequest)
				rr.Patch("/{id}", h.Request.UpdateStatus)
				rr.Post("/{id}/respond", h.Request.Respond)
				rr.Get("/{id}/audit", h.Request.Audit)
				rr.Post("/{id}/attachments", h.Request.AddAttachment)
				rr.Get("/{id}/attachments", h.Request.ListAttachments)
			})

			pr.Route("/messages", func(mr chi.Router) {
				mr.Post("/", h.Message.SendMessage)
				mr.Get("/inbox", h.Message.Inbox)
				mr.Get("/sent", h.Message.Sent)
			})

			pr.Route("/events", func(er chi.Router) {
				er.Post("/", h.Event.CreateEvent)
				er.Get("/shared", h.Event.SharedEvents)
				er.Get("/department", h.Event.DepartmentEvents)
				er.Patch("/{id}", h.Event.UpdateEvent)
				er.Delete("/{id}", h.Event.DeleteEvent)
			})
			pr.Post("/meetings", h.Event.CreateMeeting)

			pr.Route("/donors", func(dr chi.Router) {
				dr.Post("/", h.Fundraising.CreateDonor)
				dr.Get("/", h.Fundraising.ListDonors)
				dr.Get("/{id}", h.Fundraising.GetDonor)
				dr.Patch("/{id}", h.Fundraising.UpdateDonor)
				dr.Delete("/{id}", h.Fundraising.DeleteDonor)
			})

			pr.Route("/donations", func(dr chi.Router) {
				dr.Post("/", h.Fundraising.CreateDonation)
				dr.Get("/", h.Fundraising.ListDonations)
				dr.Get("/{id}", h.Fundraising.GetDonation)
				dr.Patch("/{id}", h.Fundraising.UpdateDonation)
				dr.Delete("/{id}", h.Fundraising.DeleteDonation)
			})

			pr.Route("/campaigns", func(cr chi.Router) {
				cr.Post("/", h.Fundraising.CreateCampaign)
				cr.Get("/", h.Fundraising.ListCampaigns)
				cr.Get("/{id}", h.Fundraising.GetCampaign)
				cr.Patch("/{id}", h.Fundraising.UpdateCampaign)
				cr.Delete("/{id}", h.Fundraising.DeleteCampaign)
			})

			pr.Route("/volunteers", func(vr chi.Router) {
				vr.Post("/", h.Fundraising.CreateVolunteer)
				vr.Get("/", h.Fundraising.ListVolunteers)
				vr.Get("/{id}", h.Fundraising.GetVolunteer)
				vr.Patch("/{id}", h.Fundraising.UpdateVolunteer)
				vr.Delete("/{id}", h.Fundraising.DeleteVolunteer)
			})

			pr.Route("/projects", func(pjr chi.Router) {
				pjr.Post("/", h.Program.CreateProject)
				pjr.Get("/", h.Program.ListProjects)
				pjr.Get("/{id}", h.Program.GetProject)
				pjr.Patch("/{id}", h.Program.UpdateProject)
				pjr.Delete("/{id}", h.Program.DeleteProject)
			})

			pr.Route("/beneficiaries", func(br chi.Router) {
				br.Post("/", h.Program.CreateBeneficiary)
				br.Get("/", h.Program.ListBeneficiaries)
				br.Get("/{id}", h.Program.GetBeneficiary)
				br.Patch("/{id}", h.Program.UpdateBeneficiary)
				br.Delete("/{id}", h.Program.DeleteBeneficiary)
			})

			pr.Route("/grants", func(gr chi.Router) {
				gr.Post("/", h.Grant.CreateGrant)
				gr.Get("/", h.Grant.ListGrants)
				gr.Delete("/{id}", h.Grant.DeleteGrant)
			})

			pr.Route("/performance", func(pe chi.Router) {
				pe.Post("/", h.Performance.CreateLog)
				pe.Get("/", h.Performance.ListLogs)
			})

			pr.Route("/activity", func(ar chi.Router) {
				ar.Post("/", h.Activity.CreateActivity)
				ar.Get("/", h.Activity.ListActivity)
			})

			pr.Route("/reports", func(rp chi.Router) {
				rp.Get("/overview", h.Report.Overview)
				rp.Get("/programs", h.Report.Programs)
				rp.Get("/fundraising", h.Report.Fundraising)
				rp.Get("/performance", h.Report.Performance)
				rp.Get("/exports/{dataset}", h.Report.Export)
			})

			pr.Route("/dashboards", func(dr chi.Router) {
				dr.Get("/shared", h.Report.SharedDashboard)
				dr.Get("/department", h.Report.DepartmentDashboard)
				dr.Get("/my", h.Report.MyDashboard)
			})
		})
	})
}

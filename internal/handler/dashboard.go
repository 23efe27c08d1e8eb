package handler

import (
	"net/http"
	"strconv"

	"github.com/prasetyo/school-engine/internal/service"
	"github.com/prasetyo/school-engine/pkg/response"
)

type DashboardHandler struct {
	service *service.DashboardService
}

func NewDashboardHandler(service *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Stats handles GET /dashboard/stats
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, stats)
}

// RecentStudents handles GET /dashboard/recent-students?limit=
func (h *DashboardHandler) RecentStudents(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	students, err := h.service.RecentStudents(r.Context(), limit)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, students)
}

// AttendanceChart handles GET /dashboard/attendance-chart?days=
func (h *DashboardHandler) AttendanceChart(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	points, err := h.service.AttendanceChart(r.Context(), days)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, points)
}

// ClassDistribution handles GET /dashboard/class-distribution
func (h *DashboardHandler) ClassDistribution(w http.ResponseWriter, r *http.Request) {
	distribution, err := h.service.ClassDistribution(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, distribution)
}

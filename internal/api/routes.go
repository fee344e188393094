package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Greggwolin/landscape-sub008/internal/blockgroup"
	"github.com/Greggwolin/landscape-sub008/internal/config"
	"github.com/Greggwolin/landscape-sub008/internal/demographics"
	"github.com/Greggwolin/landscape-sub008/internal/geocode"
	"github.com/Greggwolin/landscape-sub008/internal/metrics"
	"github.com/Greggwolin/landscape-sub008/internal/store"
)

// Server aggregates the handler dependencies. Each field is the narrow
// interface its controller file declares; in production they all resolve to
// the same store plus the fetcher, geocoder and spatial index.
type Server struct {
	Projects     ProjectStore
	Containers   ContainerStore
	Budget       BudgetStore
	Acquisitions AcquisitionStore
	Documents    DocumentStore
	UnitTypes    UnitTypeStore
	Leases       LeaseStore
	MapPoints    MapPointStore
	Stats        StatsStore
	Demographics DemographicsFetcher
	Geocoder     Geocoder
	BlockGroups  BlockGroupIndex
	Cfg          *config.Config
}

// NewServer wires the live dependencies.
func NewServer(st *store.Store, f *demographics.Fetcher, gc *geocode.Client, ix *blockgroup.Index, cfg *config.Config) *Server {
	return &Server{
		Projects:     st,
		Containers:   st,
		Budget:       st,
		Acquisitions: st,
		Documents:    st,
		UnitTypes:    st,
		Leases:       st,
		MapPoints:    st,
		Stats:        st,
		Demographics: f,
		Geocoder:     gc,
		BlockGroups:  ix,
		Cfg:          cfg,
	}
}

// Register mounts every route on the group (mounted under /api by main).
func (s *Server) Register(g *echo.Group) {
	g.Use(instrument)

	g.GET("/projects", s.listProjects)
	g.POST("/projects", s.createProject)
	g.GET("/projects/:id", s.getProject)
	g.PUT("/projects/:id", s.updateProject)
	g.DELETE("/projects/:id", s.deleteProject)

	g.GET("/projects/:id/containers", s.listContainers)
	g.POST("/projects/:id/containers", s.createContainer)
	g.PUT("/containers/:id", s.updateContainer)
	g.DELETE("/containers/:id", s.deleteContainer)

	g.GET("/projects/:id/budget", s.listBudgetItems)
	g.POST("/projects/:id/budget", s.createBudgetItem)
	g.PUT("/budget/:id", s.updateBudgetItem)
	g.DELETE("/budget/:id", s.deleteBudgetItem)

	g.GET("/projects/:id/acquisitions", s.listAcquisitions)
	g.POST("/projects/:id/acquisitions", s.createAcquisition)
	g.PUT("/acquisitions/:id", s.updateAcquisition)
	g.DELETE("/acquisitions/:id", s.deleteAcquisition)

	g.GET("/projects/:id/documents", s.listDocuments)
	g.POST("/projects/:id/documents", s.createDocument)
	g.GET("/documents/:id", s.getDocument)
	g.POST("/documents/:id/status", s.advanceDocumentStatus)
	g.DELETE("/documents/:id", s.deleteDocument)

	g.GET("/projects/:id/unit-types", s.listUnitTypes)
	g.POST("/projects/:id/unit-types", s.createUnitType)
	g.DELETE("/unit-types/:id", s.deleteUnitType)

	g.GET("/projects/:id/leases", s.listLeases)
	g.POST("/projects/:id/leases", s.createLease)
	g.PUT("/leases/:id", s.updateLease)
	g.DELETE("/leases/:id", s.deleteLease)
	g.GET("/projects/:id/reports/lease-expirations", s.leaseExpirations)

	g.GET("/projects/:id/map-points", s.listMapPoints)
	g.POST("/projects/:id/map-points", s.createMapPoint)
	g.PUT("/map-points/:id", s.updateMapPoint)
	g.DELETE("/map-points/:id", s.deleteMapPoint)

	g.GET("/rings", s.getRings)
	g.GET("/rings/hit", s.ringHitTest)
	g.GET("/demographics", s.getDemographics)
	g.GET("/blockgroups", s.getBlockGroups)
	g.GET("/geocode", s.getGeocode)
	g.GET("/stats", s.getStats)
}

// instrument counts requests per resource (first path segment after the API
// base) and records wall time.
func instrument(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		metrics.RequestsTotal.WithLabelValues(resourceOf(c.Path())).Inc()
		metrics.RequestDurationMs.Observe(float64(time.Since(start).Milliseconds()))
		return err
	}
}

func resourceOf(routePath string) string {
	parts := strings.Split(strings.TrimPrefix(routePath, "/"), "/")
	for _, p := range parts {
		if p != "" && p != "api" {
			return p
		}
	}
	return "unknown"
}

// pathID parses a numeric :id path param; the bool is false on garbage.
func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/carepoint/hms/internal/config"
	"github.com/carepoint/hms/internal/domain/billing"
	"github.com/carepoint/hms/internal/domain/clinical"
	"github.com/carepoint/hms/internal/domain/dashboard"
	"github.com/carepoint/hms/internal/domain/facility"
	"github.com/carepoint/hms/internal/domain/identity"
	"github.com/carepoint/hms/internal/domain/scheduling"
	"github.com/carepoint/hms/internal/platform/activity"
	"github.com/carepoint/hms/internal/platform/export"
	"github.com/carepoint/hms/internal/platform/middleware"
	"github.com/carepoint/hms/internal/store"
)

const (
	apiPrefix      = "/api/v1"
	requestTimeout = 30 * time.Second
	bodyLimit      = "1M"
	version        = "0.1.0"
)

// app is the wired set of services over one store.
type app struct {
	store      *store.Store
	identity   *identity.Service
	scheduling *scheduling.Service
	facility   *facility.Service
	clinical   *clinical.Service
	billing    *billing.Service
	dashboard  *dashboard.Service
	activity   *activity.Feed
}

// loadStore builds the store from SEED_FILE, or the built-in seed when unset.
func loadStore(cfg *config.Config) (*store.Store, error) {
	newIDs, err := cfg.IDGenerator()
	if err != nil {
		return nil, err
	}
	seed := store.DefaultSeed()
	if cfg.SeedFile != "" {
		if seed, err = store.LoadSeed(cfg.SeedFile); err != nil {
			return nil, err
		}
	}
	return store.New(seed, newIDs), nil
}

func newApp(st *store.Store, cfg *config.Config) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	identitySvc := identity.NewService(
		identity.NewPatientRepoMem(st.Patients),
		identity.NewDoctorRepoMem(st.Doctors),
	)
	schedulingSvc := scheduling.NewService(scheduling.NewAppointmentRepoMem(st.Appointments), loc)
	facilitySvc := facility.NewService(facility.NewRoomRepoMem(st.Rooms))
	clinicalSvc := clinical.NewService(clinical.NewRecordRepoMem(st.MedicalRecords), identitySvc, loc)
	billingSvc := billing.NewService(billing.NewBillRepoMem(st.Bills), loc)

	if cfg.StrictReferences {
		schedulingSvc.SetReferenceChecker(identitySvc)
		facilitySvc.SetReferenceChecker(identitySvc)
		clinicalSvc.SetReferenceChecker(identitySvc)
		billingSvc.SetReferenceChecker(identitySvc)
	}

	return &app{
		store:      st,
		identity:   identitySvc,
		scheduling: schedulingSvc,
		facility:   facilitySvc,
		clinical:   clinicalSvc,
		billing:    billingSvc,
		dashboard:  dashboard.NewService(identitySvc, schedulingSvc, facilitySvc, clinicalSvc, billingSvc),
		activity:   activity.NewFeed(activity.DefaultCapacity),
	}, nil
}

// router builds the echo server with the global middleware chain and every
// domain handler mounted under /api/v1.
func (a *app) router(cfg *config.Config, logger zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", "If-Match", middleware.RequestIDHeader},
	}))
	e.Use(middleware.SecurityHeaders(middleware.SecurityConfig{HSTS: !cfg.IsDev()}))
	e.Use(middleware.BodyLimit(bodyLimit))
	e.Use(middleware.RequestTimeout(requestTimeout))
	e.Use(middleware.Audit(logger, apiPrefix+"/", a.activity))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"status":  "ok",
			"version": version,
			"counts":  a.store.Counts(),
		})
	})

	apiV1 := e.Group(apiPrefix)

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	identity.NewHandler(a.identity).RegisterRoutes(apiV1)
	scheduling.NewHandler(a.scheduling).RegisterRoutes(apiV1)
	facility.NewHandler(a.facility).RegisterRoutes(apiV1)
	clinical.NewHandler(a.clinical).RegisterRoutes(apiV1)
	billing.NewHandler(a.billing).RegisterRoutes(apiV1)
	dashboard.NewHandler(a.dashboard).RegisterRoutes(apiV1)
	activity.NewHandler(a.activity).RegisterRoutes(apiV1)

	apiV1.GET("/export.xlsx", a.exportWorkbook)

	return e
}

func (a *app) exportWorkbook(c echo.Context) error {
	data, err := export.Bytes(a.store.Snapshot())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	name := fmt.Sprintf("hms-%s.xlsx", time.Now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, export.ContentType, data)
}

package echoapi

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/report"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/user"
)

var exportFilename = "student_report.csv"

type reportApi struct {
	svc    student.Service
	usrSvc user.Service
}

func registerReportAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc student.Service, usrSvc user.Service) {
	api := reportApi{svc: svc, usrSvc: usrSvc}

	rg := g.Group("/reports", jwt, activeUserMiddleware(usrSvc))
	rg.GET("/dashboard", api.dashboard)
	rg.GET("/analytics", api.analytics)
	rg.GET("/leaderboard", api.leaderboard)
	rg.GET("/export", api.export)
}

// Handlers

func (api *reportApi) dashboard(ctx echo.Context) error {
	recs, err := api.ownRecords(ctx)
	if err != nil {
		return errors.Wrap(err, "querying score records")
	}
	return ctx.JSON(http.StatusOK, report.Dashboard(recs))
}

// analytics always responds 200; any failure is reported in the payload's
// status field so chart rendering degrades instead of breaking.
func (api *reportApi) analytics(ctx echo.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ctx.JSON(http.StatusOK, report.ErrorPayload(fmt.Sprintf("%v", r)))
		}
	}()

	recs, qErr := api.ownRecords(ctx)
	if qErr != nil {
		return ctx.JSON(http.StatusOK, report.ErrorPayload(qErr.Error()))
	}
	return ctx.JSON(http.StatusOK, report.Analytics(recs))
}

func (api *reportApi) leaderboard(ctx echo.Context) error {
	recs, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying score records")
	}
	rankings := report.Leaderboard(recs)
	if rankings == nil {
		rankings = []report.Ranking{}
	}
	return ctx.JSON(http.StatusOK, rankings)
}

func (api *reportApi) export(ctx echo.Context) error {
	recs, err := api.ownRecords(ctx)
	if err != nil {
		return errors.Wrap(err, "querying score records")
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, recs); err != nil {
		if errors.Cause(err) == report.ErrNothingToExport {
			return ctx.JSON(http.StatusOK, WarningResponse{Warning: "No records available to export."})
		}
		return errors.Wrap(err, "writing CSV")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename=`+exportFilename)
	return ctx.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

func (api *reportApi) ownRecords(ctx echo.Context) ([]student.ScoreRecord, error) {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return nil, errors.Wrap(err, "getting context user")
	}
	return api.svc.Query(ctx.Request().Context(), usr.ID, nil, nil)
}

type WarningResponse struct {
	Warning string `json:"warning"`
}

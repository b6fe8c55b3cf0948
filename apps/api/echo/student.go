package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/user"
)

type studentApi struct {
	svc    student.Service
	usrSvc user.Service
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc student.Service, usrSvc user.Service) {
	api := studentApi{svc: svc, usrSvc: usrSvc}

	sg := g.Group("/students", jwt, activeUserMiddleware(usrSvc))
	sg.GET("", api.query)
	sg.POST("", api.createEntry)

	dg := sg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

// Handlers

func (api *studentApi) createEntry(ctx echo.Context) error {
	var data student.Entry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Entry")
	}

	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	res, err := api.svc.CreateEntry(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating entry")
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *studentApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	filter := new(student.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []student.ScoreRecord{})
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	recs, err := api.svc.Query(ctx.Request().Context(), usr.ID, filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying score records")
	}
	if recs == nil {
		recs = []student.ScoreRecord{}
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	rec, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"), usr.ID)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding score record")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *studentApi) update(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data student.EditRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EditRecord")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	rec, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), usr.ID, data)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating score record")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id"), usr.ID); err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting score record")
	}
	return ctx.NoContent(http.StatusNoContent)
}

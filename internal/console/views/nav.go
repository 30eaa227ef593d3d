package views

import (
	"context"

	"logdeck/internal/console/routes"
)

// Open navigates to a view by name or path, running the route gate first.
//
// Denials follow the gate's redirect: to login (remembering the requested
// path as the return target) when no credential exists, or to the default
// landing view when the user's role does not qualify. A provisional allow
// renders the view normally; if the credential turns out to be stale, its
// data calls fail and the request authorizer tears the session down.
func (a *App) Open(ctx context.Context, nameOrPath string) error {
	route, ok := routes.Find(nameOrPath)
	if !ok {
		printWarn(a.out, "Unknown view: %s", nameOrPath)
		return nil
	}

	result := a.guard.Check(route, route.Path)
	switch result.Decision {
	case routes.DecisionDeny:
		if result.Redirect == routes.LoginPath {
			a.returnURL = result.ReturnURL
			a.current = routes.LoginPath
			printWarn(a.out, "Please log in first -> %s", routes.LoginRedirectURL(result.ReturnURL))
			return nil
		}
		printWarn(a.out, "Access denied: insufficient permissions")
		return a.Open(ctx, result.Redirect)

	case routes.DecisionAllowPending:
		a.log.Debug(ctx, "profile not resolved yet, opening provisionally", "route", route.Name)
	}

	a.current = route.Path
	return a.render(ctx, route)
}

func (a *App) render(ctx context.Context, route routes.Route) error {
	switch route.Name {
	case "dashboard":
		return a.Dashboard(ctx)
	case "search":
		return a.Search(ctx)
	case "results":
		return a.Results(ctx)
	case "upload":
		return a.Upload(ctx)
	case "files":
		return a.Files(ctx)
	}
	return nil
}

// resumeAfterLogin continues to the remembered return target, or to the
// default landing view when there is none.
func (a *App) resumeAfterLogin(ctx context.Context) error {
	target := a.returnURL
	a.returnURL = ""
	if target == "" {
		target = routes.DefaultPath
	}
	return a.Open(ctx, target)
}

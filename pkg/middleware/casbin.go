package middleware

import (
	"CampusManager/internal/auth"
	"CampusManager/pkg/response"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	"github.com/casbin/casbin/v2/util"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// rbacModel is the Casbin model: role x path x method with explicit allow.
const rbacModel = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act, eft

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && r.act == p.act`

// NewEnforcer loads the route allow-list from rbac_policy.csv. fx keeps it a
// singleton.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}
	adapter := fileadapter.NewAdapter("rbac_policy.csv")
	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.AddFunction("keyMatch", util.KeyMatchFunc)
	return enforcer, nil
}

// RoleGate enforces the declarative per-route role allow-list.
type RoleGate struct {
	enforcer *casbin.Enforcer
	logger   *zap.Logger
}

func NewRoleGate(enforcer *casbin.Enforcer, logger *zap.Logger) *RoleGate {
	return &RoleGate{enforcer: enforcer, logger: logger}
}

// Enforce denies with 403 when the caller's role is not allowed the
// path/method combination. Runs after Authenticate.
func (g *RoleGate) Enforce(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := auth.CurrentUser(c)
		if user == nil {
			return response.NewForbiddenError("Missing user claims")
		}

		obj := c.Request().URL.Path
		act := c.Request().Method
		allowed, err := g.enforcer.Enforce(string(user.Role), obj, act)
		if err != nil {
			g.logger.Error("rbac enforce failed", zap.Error(err))
			return err
		}
		if !allowed {
			g.logger.Warn("rbac denied",
				zap.String("role", string(user.Role)),
				zap.String("path", obj),
				zap.String("method", act))
			return response.NewForbiddenError("Insufficient permissions")
		}
		return next(c)
	}
}

package handlers

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	apperrors "github.com/paymentchain/customers/internal/errors"
	"github.com/paymentchain/customers/internal/remote"
	"github.com/paymentchain/customers/internal/validation"
	"github.com/sirupsen/logrus"
)

const problemJSONContentType = "application/problem+json"

const (
	problemTypeBusiness = "BUSINESS"
	problemTypeTechnic  = "TECHNIC"
	problemTypeNotFound = "https://example.com/errors/not-found"
	problemTypeBlank    = "about:blank"
)

// ProblemDetails is the RFC 7807 error body returned by the API
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance"`
}

// ProblemDetailsErrorHandler converts any error escaping a handler into an
// RFC 7807 response. Business rule violations answer with their own status,
// unreachable-host conditions escaping the services answer with 502.
func ProblemDetailsErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		logrus.Errorf("request %s failed - %v", c.Request().RequestURI, err)

		problem := problemFrom(err, c.Request().URL.Path)

		c.Response().Header().Set(echo.HeaderContentType, problemJSONContentType)
		if err := c.JSON(problem.Status, &problem); err != nil {
			logrus.Errorf("failed to write problem details response - %v", err)
		}
	}
}

func problemFrom(err error, instance string) ProblemDetails {
	var ruleErr *apperrors.BusinessRuleErr
	if stderrors.As(err, &ruleErr) {
		return ProblemDetails{
			Type:     problemTypeBusiness,
			Title:    fmt.Sprintf("ERROR VALIDATION %s", ruleErr.Error()),
			Status:   ruleErr.Status(),
			Detail:   fmt.Sprintf("business rule %d violated: %s", ruleErr.RuleID(), ruleErr.Error()),
			Instance: instance,
		}
	}

	var notFoundErr *apperrors.EntryNotFoundErr
	if stderrors.As(err, &notFoundErr) {
		return ProblemDetails{
			Type:     problemTypeNotFound,
			Title:    "resource not found",
			Status:   http.StatusNotFound,
			Detail:   notFoundErr.Error(),
			Instance: instance,
		}
	}

	if remote.IsUnreachable(err) {
		return ProblemDetails{
			Type:     problemTypeTechnic,
			Title:    "remote service is not reachable",
			Status:   http.StatusBadGateway,
			Detail:   fmt.Sprintf("remote host could not be contacted, check DNS configuration or service name: %s", err),
			Instance: instance,
		}
	}

	var payloadErr *validation.PayloadError
	if stderrors.As(err, &payloadErr) {
		return ProblemDetails{
			Type:     problemTypeBlank,
			Title:    "invalid request payload",
			Status:   http.StatusBadRequest,
			Detail:   payloadErr.Error(),
			Instance: instance,
		}
	}

	var echoErr *echo.HTTPError
	if stderrors.As(err, &echoErr) {
		return ProblemDetails{
			Type:     problemTypeBlank,
			Title:    http.StatusText(echoErr.Code),
			Status:   echoErr.Code,
			Detail:   fmt.Sprintf("%v", echoErr.Message),
			Instance: instance,
		}
	}

	return ProblemDetails{
		Type:     problemTypeBlank,
		Title:    "internal server error",
		Status:   http.StatusInternalServerError,
		Detail:   err.Error(),
		Instance: instance,
	}
}

package controllers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"civicsync-dashboard/models"
	"civicsync-dashboard/query"
)

// splitValues collects a query parameter given either repeated or as a
// comma separated list.
func splitValues(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, v := range strings.Split(r, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func parseEnumList[T ~string](c *gin.Context, param string, valid func(T) bool) ([]T, error) {
	var out []T
	for _, v := range splitValues(c.QueryArray(param)) {
		value := T(v)
		if !valid(value) {
			return nil, fmt.Errorf("invalid %s %q", param, v)
		}
		out = append(out, value)
	}
	return out, nil
}

// parseListQuery reads the filter spec and search term of GET /api/issues.
func parseListQuery(c *gin.Context) (query.FilterSpec, string, error) {
	var spec query.FilterSpec
	var err error

	if spec.Category, err = parseEnumList(c, "category", models.IssueCategory.Valid); err != nil {
		return spec, "", err
	}
	if spec.Priority, err = parseEnumList(c, "priority", models.IssuePriority.Valid); err != nil {
		return spec, "", err
	}
	if spec.Status, err = parseEnumList(c, "status", models.IssueStatus.Valid); err != nil {
		return spec, "", err
	}
	spec.Location = strings.TrimSpace(c.Query("location"))

	if spec.DateRange, err = parseDateRange(c.Query("start"), c.Query("end")); err != nil {
		return spec, "", err
	}
	return spec, c.Query("search"), nil
}

func parseDateRange(start, end string) (query.DateRange, error) {
	var r query.DateRange
	var err error
	if r.Start, err = query.ParseDateBound(start, false); err != nil {
		return r, err
	}
	if r.End, err = query.ParseDateBound(end, true); err != nil {
		return r, err
	}
	if r.Start != nil && r.End != nil && r.End.Before(*r.Start) {
		return r, fmt.Errorf("end date is before start date")
	}
	return r, nil
}

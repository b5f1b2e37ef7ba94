package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const otherApartmentID = "d4e3f2a1-5555-4b66-9c77-8899aabbccdd"

func TestPropertiesList(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/projects/"+testProjectID+"/properties", jsonResponse(200, `{
			"properties": [{"id": "`+testPropertyID+`", "title": "North Plot", "plotArea": 1200}]
		}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"properties", "list", "--project", testProjectID}); err != nil {
			t.Fatalf("properties list failed: %v", err)
		}
	})

	for _, want := range []string{"PLOT AREA", "North Plot", "1200 m²"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestPropertiesList_RequiresProject(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"properties", "list"})
	})
	if err == nil || !strings.Contains(err.Error(), "--project is required") {
		t.Fatalf("expected --project error, got %v", err)
	}
	if code := ExitCode(err); code != exitUsage {
		t.Errorf("ExitCode = %d, want %d", code, exitUsage)
	}
}

func TestPropertiesCreate(t *testing.T) {
	handler := newRouteHandler().
		On("POST", "/api/v1/projects/"+testProjectID+"/properties", jsonResponse(201, `{"id":"`+testPropertyID+`","title":"North Plot"}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{
			"properties", "create", "North Plot", "-P", testProjectID, "--plot-area", "1200", "--desc", "by the river",
		})
		if err != nil {
			t.Fatalf("properties create failed: %v", err)
		}
	})

	assert.Equal(t, "Created property "+testPropertyID+": North Plot", strings.TrimSpace(output))
	reqs := handler.Requests()
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"title":"North Plot","description":"by the river","plotArea":1200}`, string(reqs[0].Body))
}

func TestBuildingsCreate_WithAddress(t *testing.T) {
	handler := newRouteHandler().
		On("POST", "/api/v1/projects/"+testProjectID+"/properties/"+testPropertyID+"/buildings",
			jsonResponse(201, `{"id":"`+testBuildingID+`","title":"House A"}`))
	setupTestEnvWithHandler(t, handler)

	_ = captureStdout(t, func() {
		err := Execute(context.Background(), []string{
			"buildings", "create", "House A",
			"--project", testProjectID,
			"--property", testPropertyID,
			"--street", "Hafenstr. 1", "--zip", "10115", "--city", "Berlin", "--country", "de",
		})
		if err != nil {
			t.Fatalf("buildings create failed: %v", err)
		}
	})

	reqs := handler.Requests()
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{
		"title": "House A",
		"address": {"street": "Hafenstr. 1", "zip": "10115", "city": "Berlin", "countryCode": "DE"}
	}`, string(reqs[0].Body))
}

func TestBuildingsCreate_WithoutAddress(t *testing.T) {
	handler := newRouteHandler().
		On("POST", "/api/v1/projects/"+testProjectID+"/properties/"+testPropertyID+"/buildings",
			jsonResponse(201, `{"id":"`+testBuildingID+`","title":"House B"}`))
	setupTestEnvWithHandler(t, handler)

	_ = captureStdout(t, func() {
		err := Execute(context.Background(), []string{"buildings", "create", "House B", "-P", testProjectID, "--property", testPropertyID})
		require.NoError(t, err)
	})

	reqs := handler.Requests()
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"title":"House B"}`, string(reqs[0].Body))
}

func TestBuildingsList_ProjectFromPropertyURL(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/projects/"+testProjectID+"/properties/"+testPropertyID+"/buildings", jsonResponse(200, `{
			"buildings": [{"id": "`+testBuildingID+`", "title": "House A", "address": {"street": "Hafenstr. 1", "zip": "10115", "city": "Berlin"}}]
		}`))
	env := setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		propertyURL := env.server.URL + "/projects/" + testProjectID + "/properties/" + testPropertyID
		if err := Execute(context.Background(), []string{"buildings", "list", "--property", propertyURL}); err != nil {
			t.Fatalf("buildings list failed: %v", err)
		}
	})

	assert.Contains(t, output, "House A")
	assert.Contains(t, output, "Hafenstr. 1, 10115 Berlin")
}

func TestApartmentsGet_Multiple(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/projects/"+testProjectID+"/apartments/"+testApartmentID,
			jsonResponse(200, `{"id":"`+testApartmentID+`","title":"Apt 1","livingSpace":72.5}`)).
		On("GET", "/api/v1/projects/"+testProjectID+"/apartments/"+otherApartmentID,
			jsonResponse(200, `{"id":"`+otherApartmentID+`","title":"Apt 2"}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{
			"apartments", "get", testApartmentID, otherApartmentID, "-P", testProjectID, "-o", "json",
		})
		require.NoError(t, err)
	})

	var got struct {
		Results []struct {
			ID      string         `json:"id"`
			Success bool           `json:"success"`
			Data    map[string]any `json:"data"`
		} `json:"results"`
		Succeeded int `json:"succeeded"`
		Failed    int `json:"failed"`
	}
	decodeJSON(t, output, &got)
	require.Len(t, got.Results, 2)
	assert.Equal(t, 2, got.Succeeded)
	assert.Equal(t, 0, got.Failed)
	assert.Equal(t, testApartmentID, got.Results[0].ID)
	assert.Equal(t, "Apt 1", got.Results[0].Data["title"])
	assert.Equal(t, "Apt 2", got.Results[1].Data["title"])
}

func TestApartmentsDelete_PartialFailure(t *testing.T) {
	handler := newRouteHandler().
		On("DELETE", "/api/v1/projects/"+testProjectID+"/apartments/"+testApartmentID, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	setupTestEnvWithHandler(t, handler)

	var err error
	output := captureStdout(t, func() {
		_ = captureStderr(t, func() {
			err = Execute(context.Background(), []string{
				"apartments", "delete", testApartmentID, otherApartmentID, "-P", testProjectID, "-y",
			})
		})
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "deleted 1 of 2 items")
	assert.Equal(t, exitNotFound, ExitCode(err))
	assert.Contains(t, output, "Deleted apartment "+testApartmentID)
	assert.Contains(t, output, "Failed to delete apartment "+otherApartmentID)
	assert.Len(t, handler.Requests(), 2)
}

func TestApartmentsDelete_DryRun(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{
			"apartments", "delete", testApartmentID, otherApartmentID, "-P", testProjectID, "--dry-run",
		})
		require.NoError(t, err)
	})

	assert.Empty(t, handler.Requests())
	assert.Equal(t, 2, strings.Count(output, "[DRY-RUN] Would DELETE"))
}

func TestApartmentsUpdate(t *testing.T) {
	handler := newRouteHandler().
		On("PATCH", "/api/v1/projects/"+testProjectID+"/apartments/"+testApartmentID,
			jsonResponse(200, `{"id":"`+testApartmentID+`","title":"Apt 1","livingSpace":80}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{
			"apartments", "update", testApartmentID, "-P", testProjectID, "--living-space", "80", "--location", "2nd floor",
		})
		require.NoError(t, err)
	})

	assert.Equal(t, "Updated apartment "+testApartmentID+": Apt 1", strings.TrimSpace(output))
	reqs := handler.Requests()
	require.Len(t, reqs, 1)
	var body map[string]any
	require.NoError(t, json.Unmarshal(reqs[0].Body, &body))
	assert.Equal(t, map[string]any{"title": "", "location": "2nd floor", "livingSpace": float64(80)}, body)
}

func TestApartmentsUpdate_NoFields(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"apartments", "update", testApartmentID, "-P", testProjectID})
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one field")
	assert.Empty(t, handler.Requests())
}

func TestStoragesGet_FromURL(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/projects/"+testProjectID+"/storages/"+testStorageID,
			jsonResponse(200, `{"id":"`+testStorageID+`","title":"Garage 3","location":"basement","usableSpace":18}`))
	env := setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		storageURL := env.server.URL + "/projects/" + testProjectID + "/storages/" + testStorageID
		require.NoError(t, Execute(context.Background(), []string{"storages", "get", storageURL}))
	})

	assert.Contains(t, output, "Garage 3")
	assert.Contains(t, output, "basement")
	assert.Contains(t, output, "18 m²")
}

func TestStoragesGet_WrongURLKind(t *testing.T) {
	env := setupTestEnvWithHandler(t, newRouteHandler())

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{
			"storages", "get", env.server.URL + "/projects/" + testProjectID + "/apartments/" + testApartmentID,
		})
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "URL does not point to a storage")
}

func TestStoragesCreate(t *testing.T) {
	handler := newRouteHandler().
		On("POST", "/api/v1/projects/"+testProjectID+"/buildings/"+testBuildingID+"/storages",
			jsonResponse(201, `{"id":"`+testStorageID+`","title":"Garage 3"}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{
			"storages", "create", "Garage 3", "-P", testProjectID, "--building", testBuildingID, "--usable-space", "18",
		})
		require.NoError(t, err)
	})

	assert.Equal(t, "Created storage "+testStorageID+": Garage 3", strings.TrimSpace(output))
	reqs := handler.Requests()
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"title":"Garage 3","usableSpace":18}`, string(reqs[0].Body))
}

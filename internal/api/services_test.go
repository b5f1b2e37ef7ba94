package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

func TestUserGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/v1/user" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":"u1","email":"jane@example.com","firstName":"Jane","lastName":"Doe"}`))
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL)
	user, err := client.User().Get(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if user.Name() != "Jane Doe" || user.Email != "jane@example.com" {
		t.Errorf("Unexpected user: %#v", user)
	}
}

func TestUserName(t *testing.T) {
	tests := []struct {
		user User
		want string
	}{
		{User{FirstName: "Jane", LastName: "Doe"}, "Jane Doe"},
		{User{FirstName: "Jane"}, "Jane"},
		{User{LastName: "Doe"}, "Doe"},
		{User{Email: "x@example.com"}, "x@example.com"},
	}
	for _, tt := range tests {
		if got := tt.user.Name(); got != tt.want {
			t.Errorf("Name() = %q, want %q", got, tt.want)
		}
	}
}

func TestProjectsService(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		status     int
		response   string
		call       func(*testing.T, *Client)
		assertBody func(*testing.T, map[string]any)
	}{
		{
			name:     "list",
			method:   http.MethodGet,
			path:     "/api/v1/projects",
			status:   http.StatusOK,
			response: `{"projects":[{"id":"p1","name":"Home","memberRole":"MANAGER"}],"first":0,"size":1,"total":1}`,
			call: func(t *testing.T, c *Client) {
				list, err := c.Projects().List(context.Background(), 10, 0)
				if err != nil {
					t.Fatalf("List error: %v", err)
				}
				if len(list.Projects) != 1 || list.Projects[0].MemberRole != RoleManager {
					t.Errorf("Unexpected list: %#v", list)
				}
			},
		},
		{
			name:     "get",
			method:   http.MethodGet,
			path:     "/api/v1/projects/p1",
			status:   http.StatusOK,
			response: `{"id":"p1","title":"Home","members":[{"email":"a@example.com","role":"PROPRIETOR"}]}`,
			call: func(t *testing.T, c *Client) {
				p, err := c.Projects().Get(context.Background(), "p1")
				if err != nil {
					t.Fatalf("Get error: %v", err)
				}
				if p.Title != "Home" || len(p.Members) != 1 || p.Members[0].Role != RoleProprietor {
					t.Errorf("Unexpected project: %#v", p)
				}
			},
		},
		{
			name:     "create",
			method:   http.MethodPost,
			path:     "/api/v1/projects",
			status:   http.StatusCreated,
			response: `{"id":"p2","title":"New"}`,
			call: func(t *testing.T, c *Client) {
				p, err := c.Projects().Create(context.Background(), "New")
				if err != nil {
					t.Fatalf("Create error: %v", err)
				}
				if p.ID != "p2" {
					t.Errorf("Unexpected project: %#v", p)
				}
			},
			assertBody: func(t *testing.T, body map[string]any) {
				if body["title"] != "New" {
					t.Errorf("Expected title in body, got %v", body)
				}
			},
		},
		{
			name:     "update",
			method:   http.MethodPatch,
			path:     "/api/v1/projects/p2",
			status:   http.StatusOK,
			response: `{"id":"p2","title":"Renamed"}`,
			call: func(t *testing.T, c *Client) {
				p, err := c.Projects().Update(context.Background(), "p2", "Renamed")
				if err != nil {
					t.Fatalf("Update error: %v", err)
				}
				if p.Title != "Renamed" {
					t.Errorf("Unexpected project: %#v", p)
				}
			},
		},
		{
			name:   "delete",
			method: http.MethodDelete,
			path:   "/api/v1/projects/p2",
			status: http.StatusNoContent,
			call: func(t *testing.T, c *Client) {
				if err := c.Projects().Delete(context.Background(), "p2"); err != nil {
					t.Fatalf("Delete error: %v", err)
				}
			},
		},
		{
			name:     "get not found",
			method:   http.MethodGet,
			path:     "/api/v1/projects/missing",
			status:   http.StatusNotFound,
			response: `{"message":"Project not found"}`,
			call: func(t *testing.T, c *Client) {
				_, err := c.Projects().Get(context.Background(), "missing")
				if !IsNotFoundError(err) {
					t.Errorf("Expected not found error, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != tt.method {
					t.Errorf("Expected %s, got %s", tt.method, r.Method)
				}
				if r.URL.Path != tt.path {
					t.Errorf("Expected path %s, got %s", tt.path, r.URL.Path)
				}
				if tt.assertBody != nil {
					var body map[string]any
					if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
						t.Fatalf("decode request body: %v", err)
					}
					tt.assertBody(t, body)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.response))
			}))
			defer server.Close()

			client, _ := newTestClient(server.URL)
			tt.call(t, client)
		})
	}
}

func TestProjectsListAll(t *testing.T) {
	var offsets []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset := r.URL.Query().Get("offset")
		offsets = append(offsets, offset)
		if r.URL.Query().Get("limit") != "2" {
			t.Errorf("Expected limit=2, got %q", r.URL.Query().Get("limit"))
		}
		switch offset {
		case "":
			_, _ = w.Write([]byte(`{"projects":[{"id":"a","name":"A"},{"id":"b","name":"B"}],"total":3}`))
		case "2":
			_, _ = w.Write([]byte(`{"projects":[{"id":"c","name":"C"}],"total":3}`))
		default:
			t.Errorf("Unexpected offset %q", offset)
		}
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL)
	all, err := client.Projects().ListAll(context.Background(), 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(all) != 3 || all[2].ID != "c" {
		t.Errorf("Unexpected projects: %#v", all)
	}
	if len(offsets) != 2 {
		t.Errorf("Expected 2 pages, got %v", offsets)
	}
}

func TestNestedResourceServices(t *testing.T) {
	routes := map[string]string{
		"GET /api/v1/projects/p1/properties":                `{"properties":[{"id":"pr1","title":"Lot"}]}`,
		"GET /api/v1/projects/p1/properties/pr1":            `{"id":"pr1","title":"Lot","plotArea":500}`,
		"POST /api/v1/projects/p1/properties":               `{"id":"pr2","title":"New Lot"}`,
		"GET /api/v1/projects/p1/properties/pr1/buildings":  `{"buildings":[{"id":"b1","title":"House"}]}`,
		"POST /api/v1/projects/p1/properties/pr1/buildings": `{"id":"b2","title":"Barn"}`,
		"GET /api/v1/projects/p1/buildings/b1":              `{"id":"b1","title":"House","address":{"city":"Berlin"}}`,
		"GET /api/v1/projects/p1/buildings/b1/apartments":   `{"apartments":[{"id":"a1","title":"Flat 1"}]}`,
		"GET /api/v1/projects/p1/apartments/a1":             `{"id":"a1","title":"Flat 1","livingSpace":54.5}`,
		"PATCH /api/v1/projects/p1/apartments/a1":           `{"id":"a1","title":"Flat 1a"}`,
		"DELETE /api/v1/projects/p1/apartments/a1":          ``,
		"GET /api/v1/projects/p1/buildings/b1/storages":     `{"storages":[{"id":"s1","title":"Cellar"}]}`,
		"POST /api/v1/projects/p1/buildings/b1/storages":    `{"id":"s2","title":"Garage"}`,
		"GET /api/v1/projects/p1/storages/s1":               `{"id":"s1","title":"Cellar","usableSpace":8}`,
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if body == "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	client, rec := newTestClient(server.URL)
	ctx := context.Background()

	props, err := client.Properties().List(ctx, "p1")
	if err != nil || len(props) != 1 {
		t.Fatalf("Properties.List: %v %#v", err, props)
	}
	prop, err := client.Properties().Get(ctx, "p1", "pr1")
	if err != nil || prop.PlotArea != 500 {
		t.Fatalf("Properties.Get: %v %#v", err, prop)
	}
	if _, err := client.Properties().Create(ctx, "p1", PropertyInput{Title: "New Lot"}); err != nil {
		t.Fatalf("Properties.Create: %v", err)
	}

	buildings, err := client.Buildings().List(ctx, "p1", "pr1")
	if err != nil || len(buildings) != 1 {
		t.Fatalf("Buildings.List: %v %#v", err, buildings)
	}
	building, err := client.Buildings().Get(ctx, "p1", "b1")
	if err != nil || building.Address == nil || building.Address.City != "Berlin" {
		t.Fatalf("Buildings.Get: %v %#v", err, building)
	}
	if _, err := client.Buildings().Create(ctx, "p1", "pr1", BuildingInput{Title: "Barn"}); err != nil {
		t.Fatalf("Buildings.Create: %v", err)
	}

	apartments, err := client.Apartments().List(ctx, "p1", "b1")
	if err != nil || len(apartments) != 1 {
		t.Fatalf("Apartments.List: %v %#v", err, apartments)
	}
	apartment, err := client.Apartments().Get(ctx, "p1", "a1")
	if err != nil || apartment.LivingSpace != 54.5 {
		t.Fatalf("Apartments.Get: %v %#v", err, apartment)
	}
	updated, err := client.Apartments().Update(ctx, "p1", "a1", Apartment{Title: "Flat 1a"})
	if err != nil || updated.Title != "Flat 1a" {
		t.Fatalf("Apartments.Update: %v %#v", err, updated)
	}
	if err := client.Apartments().Delete(ctx, "p1", "a1"); err != nil {
		t.Fatalf("Apartments.Delete: %v", err)
	}

	storages, err := client.Storages().List(ctx, "p1", "b1")
	if err != nil || len(storages) != 1 {
		t.Fatalf("Storages.List: %v %#v", err, storages)
	}
	storage, err := client.Storages().Get(ctx, "p1", "s1")
	if err != nil || storage.UsableSpace != 8 {
		t.Fatalf("Storages.Get: %v %#v", err, storage)
	}
	if _, err := client.Storages().Create(ctx, "p1", "b1", StorageInput{Title: "Garage"}); err != nil {
		t.Fatalf("Storages.Create: %v", err)
	}

	if n := len(rec.messages()); n != 0 {
		t.Errorf("Expected no notifications, got %d", n)
	}
}

func TestServicesAcceptFakeRequester(t *testing.T) {
	fake := &fakeRequester{resp: &Response{Status: 200, Body: []byte(`{"storages":[]}`)}}
	svc := StoragesService{fake}
	if _, err := svc.List(context.Background(), "p1", "b"+strconv.Itoa(7)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if fake.calls[0].URL != "/api/v1/projects/p1/buildings/b7/storages" {
		t.Errorf("Unexpected URL: %s", fake.calls[0].URL)
	}
}

package order_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealhub/delivery-backend/internal/apperr"
	"github.com/mealhub/delivery-backend/internal/menu"
	"github.com/mealhub/delivery-backend/internal/order"
	"github.com/mealhub/delivery-backend/internal/shop"
	"github.com/mealhub/delivery-backend/internal/user"
)

type mockRepository struct {
	insertFunc                func(ctx context.Context, o *order.Order) error
	getByIDFunc               func(ctx context.Context, id string) (*order.Order, error)
	listFunc                  func(ctx context.Context, f order.Filter) ([]order.Order, error)
	transitionFunc            func(ctx context.Context, id string, from, next order.Status, at time.Time) (bool, error)
	acceptFunc                func(ctx context.Context, id, delivererID, riderName, riderPhone string, at time.Time) (bool, error)
	cancelStaleFunc           func(ctx context.Context, olderThan, at time.Time) (int64, error)
	updateCourierLocationFunc func(ctx context.Context, id, delivererID string, lat, lng float64) (bool, error)
	attachRatingFunc          func(ctx context.Context, id string, r order.Rating) (bool, error)
	addIncidentFunc           func(ctx context.Context, inc *order.Incident) error
	listDropoffLocationsFunc  func(ctx context.Context) ([]order.DropoffLocation, error)
}

func (m *mockRepository) Insert(ctx context.Context, o *order.Order) error {
	return m.insertFunc(ctx, o)
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockRepository) List(ctx context.Context, f order.Filter) ([]order.Order, error) {
	return m.listFunc(ctx, f)
}

func (m *mockRepository) Transition(ctx context.Context, id string, from, next order.Status, at time.Time) (bool, error) {
	return m.transitionFunc(ctx, id, from, next, at)
}

func (m *mockRepository) Accept(ctx context.Context, id, delivererID, riderName, riderPhone string, at time.Time) (bool, error) {
	return m.acceptFunc(ctx, id, delivererID, riderName, riderPhone, at)
}

func (m *mockRepository) CancelStale(ctx context.Context, olderThan, at time.Time) (int64, error) {
	return m.cancelStaleFunc(ctx, olderThan, at)
}

func (m *mockRepository) UpdateCourierLocation(ctx context.Context, id, delivererID string, lat, lng float64) (bool, error) {
	return m.updateCourierLocationFunc(ctx, id, delivererID, lat, lng)
}

func (m *mockRepository) AttachRating(ctx context.Context, id string, r order.Rating) (bool, error) {
	return m.attachRatingFunc(ctx, id, r)
}

func (m *mockRepository) AddIncident(ctx context.Context, inc *order.Incident) error {
	return m.addIncidentFunc(ctx, inc)
}

func (m *mockRepository) ListDropoffLocations(ctx context.Context) ([]order.DropoffLocation, error) {
	return m.listDropoffLocationsFunc(ctx)
}

type mockUsers struct {
	getByIDFunc func(ctx context.Context, id string) (*user.User, error)
}

func (m *mockUsers) GetByID(ctx context.Context, id string) (*user.User, error) {
	return m.getByIDFunc(ctx, id)
}

type mockMenu struct {
	lookupFunc func(ctx context.Context, id string) (*menu.Item, error)
}

func (m *mockMenu) Lookup(ctx context.Context, id string) (*menu.Item, error) {
	return m.lookupFunc(ctx, id)
}

type mockShops struct {
	getByIDFunc func(ctx context.Context, id string) (*shop.Shop, error)
}

func (m *mockShops) GetByID(ctx context.Context, id string) (*shop.Shop, error) {
	return m.getByIDFunc(ctx, id)
}

func defaultUsers() *mockUsers {
	return &mockUsers{
		getByIDFunc: func(ctx context.Context, id string) (*user.User, error) {
			return &user.User{ID: id, Name: "Alex", Phone: "0912000111"}, nil
		},
	}
}

func defaultMenu() *mockMenu {
	return &mockMenu{
		lookupFunc: func(ctx context.Context, id string) (*menu.Item, error) {
			return &menu.Item{ID: id, RestaurantID: "shop-1", Name: "Beef Noodles", Price: 180, IsAvailable: true}, nil
		},
	}
}

func defaultShops() *mockShops {
	return &mockShops{
		getByIDFunc: func(ctx context.Context, id string) (*shop.Shop, error) {
			return &shop.Shop{ID: id, Name: "Noodle House"}, nil
		},
	}
}

func assertAppErr(t *testing.T, err error, kind apperr.Kind, code string) {
	t.Helper()
	require.Error(t, err)
	e := apperr.From(err)
	assert.Equal(t, kind, e.Kind)
	if code != "" {
		assert.Equal(t, code, e.Code)
	}
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name       string
		req        *order.CreateRequest
		lookupFunc func(ctx context.Context, id string) (*menu.Item, error)
		shopFunc   func(ctx context.Context, id string) (*shop.Shop, error)
		wantKind   apperr.Kind
		wantCode   string
	}{
		{
			name:     "empty_items",
			req:      &order.CreateRequest{Dropoff: order.Dropoff{Name: "Dorm A"}},
			wantKind: apperr.KindValidation,
			wantCode: apperr.CodeValidation,
		},
		{
			name: "missing_dropoff",
			req: &order.CreateRequest{
				Items: []order.CreateItem{{MenuItemID: "item-1", Quantity: 1}},
			},
			wantKind: apperr.KindValidation,
			wantCode: apperr.CodeValidation,
		},
		{
			name: "zero_quantity",
			req: &order.CreateRequest{
				Items:   []order.CreateItem{{MenuItemID: "item-1"}},
				Dropoff: order.Dropoff{Name: "Dorm A"},
			},
			wantKind: apperr.KindValidation,
			wantCode: apperr.CodeValidation,
		},
		{
			name: "unavailable_item",
			req: &order.CreateRequest{
				Items:   []order.CreateItem{{MenuItemID: "item-1", Quantity: 1}},
				Dropoff: order.Dropoff{Name: "Dorm A"},
			},
			lookupFunc: func(ctx context.Context, id string) (*menu.Item, error) {
				return &menu.Item{ID: id, RestaurantID: "shop-1", Name: "Beef Noodles", Price: 180, IsAvailable: false}, nil
			},
			wantKind: apperr.KindValidation,
			wantCode: apperr.CodeMenuUnavailable,
		},
		{
			name: "unknown_restaurant",
			req: &order.CreateRequest{
				Items:   []order.CreateItem{{MenuItemID: "item-1", Quantity: 1}},
				Dropoff: order.Dropoff{Name: "Dorm A"},
			},
			shopFunc: func(ctx context.Context, id string) (*shop.Shop, error) {
				return nil, shop.ErrNotFound
			},
			wantKind: apperr.KindValidation,
			wantCode: apperr.CodeValidation,
		},
		{
			name: "mixed_restaurants",
			req: &order.CreateRequest{
				RestaurantID: "shop-2",
				Items:        []order.CreateItem{{MenuItemID: "item-1", Quantity: 1}},
				Dropoff:      order.Dropoff{Name: "Dorm A"},
			},
			wantKind: apperr.KindValidation,
			wantCode: apperr.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			menuDir := defaultMenu()
			if tt.lookupFunc != nil {
				menuDir.lookupFunc = tt.lookupFunc
			}
			shops := defaultShops()
			if tt.shopFunc != nil {
				shops.getByIDFunc = tt.shopFunc
			}
			repo := &mockRepository{
				insertFunc: func(ctx context.Context, o *order.Order) error { return nil },
			}
			svc := order.NewService(repo, defaultUsers(), menuDir, shops)

			_, err := svc.Create(context.Background(), "cust-1", tt.req)
			assertAppErr(t, err, tt.wantKind, tt.wantCode)
		})
	}
}

func TestService_Create_Success(t *testing.T) {
	var inserted *order.Order
	repo := &mockRepository{
		insertFunc: func(ctx context.Context, o *order.Order) error {
			inserted = o
			return nil
		},
	}
	svc := order.NewService(repo, defaultUsers(), defaultMenu(), defaultShops())

	view, err := svc.Create(context.Background(), "cust-1", &order.CreateRequest{
		Items: []order.CreateItem{
			{MenuItemID: "item-1", Quantity: 2, Size: "large"},
		},
		Dropoff: order.Dropoff{Name: "Dorm A"},
		Notes:   "no cilantro",
	})
	require.NoError(t, err)
	require.NotNil(t, inserted)

	assert.True(t, strings.HasPrefix(inserted.ID, "ord-"))
	assert.Len(t, inserted.ID, 10)
	assert.Len(t, inserted.Code, 6)
	assert.Equal(t, inserted.Code, strings.ToUpper(inserted.Code))
	assert.Equal(t, "cust-1", inserted.CustomerID)
	assert.Equal(t, "shop-1", inserted.RestaurantID)
	assert.Equal(t, "Noodle House", inserted.RestaurantName)
	assert.Equal(t, order.StatusAvailable, inserted.Status)
	require.Len(t, inserted.History, 1)
	assert.Equal(t, order.StatusAvailable, inserted.History[0].Status)

	// Price snapshot: 2 * 180 plus the delivery fee.
	require.Len(t, inserted.Items, 1)
	assert.Equal(t, "Beef Noodles", inserted.Items[0].Name)
	assert.Equal(t, int64(180), inserted.Items[0].Price)
	assert.Equal(t, inserted.TotalAmount, int64(360)+inserted.DeliveryFee)
	assert.Positive(t, inserted.DeliveryFee)

	assert.Equal(t, inserted.ID, view.ID)
	assert.Equal(t, order.StatusAvailable, view.Status)
}

func TestService_Accept(t *testing.T) {
	base := func() *order.Order {
		return &order.Order{
			ID:         "ord-aaa111",
			CustomerID: "cust-1",
			Status:     order.StatusAvailable,
			Dropoff:    order.Dropoff{Name: "Dorm A"},
		}
	}

	t.Run("not_found", func(t *testing.T) {
		repo := &mockRepository{
			getByIDFunc: func(ctx context.Context, id string) (*order.Order, error) {
				return nil, order.ErrNotFound
			},
		}
		svc := order.NewService(repo, defaultUsers(), defaultMenu(), defaultShops())
		_, err := svc.Accept(context.Background(), "rider-1", "ord-missing", "", "")
		assertAppErr(t, err, apperr.KindNotFound, apperr.CodeOrderNotFound)
	})

	t.Run("already_taken", func(t *testing.T) {
		o := base()
		o.Status = order.StatusAssigned
		o.DelivererID = "rider-2"
		repo := &mockRepository{
			getByIDFunc: func(ctx context.Context, id string) (*order.Order, error) { return o, nil },
		}
		svc := order.NewService(repo, defaultUsers(), defaultMenu(), defaultShops())
		_, err := svc.Accept(context.Background(), "rider-1", o.ID, "", "")
		assertAppErr(t, err, apperr.KindConflict, apperr.CodeOrderConflict)
	})

	t.Run("lost_race", func(t *testing.T) {
		repo := &mockRepository{
			getByIDFunc: func(ctx context.Context, id string) (*order.Order, error) { return base(), nil },
			acceptFunc: func(ctx context.Context, id, delivererID, riderName, riderPhone string, at time.Time) (bool, error) {
				// Another deliverer won between the read and the update.
				return false, nil
			},
		}
		svc := order.NewService(repo, defaultUsers(), defaultMenu(), defaultShops())
		_, err := svc.Accept(context.Background(), "rider-1", "ord-aaa111", "", "")
		assertAppErr(t, err, apperr.KindConflict, apperr.CodeOrderConflict)
	})

	t.Run("success", func(t *testing.T) {
		o := base()
		repo := &mockRepository{
			getByIDFunc: func(ctx context.Context, id string) (*order.Order, error) { return o, nil },
			acceptFunc: func(ctx context.Context, id, delivererID, riderName, riderPhone string, at time.Time) (bool, error) {
				assert.Equal(t, "rider-1", delivererID)
				assert.Equal(t, "Alex", riderName)
				o.Status = order.StatusAssigned
				o.DelivererID = delivererID
				o.RiderName = riderName
				o.RiderPhone = riderPhone
				return true, nil
			},
		}
		svc := order.NewService(repo, defaultUsers(), defaultMenu(), defaultShops())
		view, err := svc.Accept(context.Background(), "rider-1", o.ID, "", "")
		require.NoError(t, err)
		assert.Equal(t, order.StatusAssigned, view.Status)
		require.NotNil(t, view.Customer)
		assert.Equal(t, "Alex", view.Customer.Name)
	})

	t.Run("explicit_contact_overrides_profile", func(t *testing.T) {
		o := base()
		repo := &mockRepository{
			getByIDFunc: func(ctx context.Context, id string) (*order.Order, error) { return o, nil },
			acceptFunc: func(ctx context.Context, id, delivererID, riderName, riderPhone string, at time.Time) (bool, error) {
				assert.Equal(t, "A-Hong", riderName)
				assert.Equal(t, "0987654321", riderPhone)
				o.Status = order.StatusAssigned
				o.DelivererID = delivererID
				return true, nil
			},
		}
		svc := order.NewService(repo, defaultUsers(), defaultMenu(), defaultShops())
		_, err := svc.Accept(context.Background(), "rider-1", o.ID, "A-Hong", "0987654321")
		require.NoError(t, err)
	})
}

func TestService_UpdateStatusByDeliverer(t *testing.T) {
	base := func() *order.Order {
		return &order.Order{
			ID:          "ord-bbb222",
			CustomerID:  "cust-1",
			DelivererID: "rider-1",
			Status:      order.StatusAssigned,
			Dropoff:     order.Dropoff{Name: "Dorm A"},
		}
	}

	tests := []struct {
		name        string
		delivererID string
		next        order.Status
		current     order.Status
		transitionOK bool
		wantKind    apperr.Kind
		wantCode    string
	}{
		{
			name:        "unknown_status",
			delivererID: "rider-1",
			next:        "flying",
			current:     order.StatusAssigned,
			wantKind:    apperr.KindValidation,
			wantCode:    apperr.CodeValidation,
		},
		{
			name:        "not_assignee",
			delivererID: "rider-2",
			next:        order.StatusEnRouteToPickup,
			current:     order.StatusAssigned,
			wantKind:    apperr.KindForbidden,
			wantCode:    apperr.CodeForbidden,
		},
		{
			name:        "skip_ahead",
			delivererID: "rider-1",
			next:        order.StatusDelivered,
			current:     order.StatusAssigned,
			wantKind:    apperr.KindConflict,
			wantCode:    apperr.CodeOrderConflict,
		},
		{
			name:        "terminal_order",
			delivererID: "rider-1",
			next:        order.StatusCancelled,
			current:     order.StatusDelivered,
			wantKind:    apperr.KindConflict,
			wantCode:    apperr.CodeOrderConflict,
		},
		{
			name:        "lost_race",
			delivererID: "rider-1",
			next:        order.StatusEnRouteToPickup,
			current:     order.StatusAssigned,
			wantKind:    apperr.KindConflict,
			wantCode:    apperr.CodeOrderConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := base()
			o.Status = tt.current
			repo := &mockRepository{
				getByIDFunc: func(ctx context.Context, id string) (*order.Order, error) { return o, nil },
				transitionFunc: func(ctx context.Context, id string, from, next order.Status, at time.Time) (bool, error) {
					return tt.transitionOK, nil
				},
			}
			svc := order.NewService(repo, defaultUsers(), defaultMenu(), defaultShops())
			_, err := svc.UpdateStatusByDeliverer(context.Background(), tt.delivererID, o.ID, tt.next)
			assertAppErr(t, err, tt.wantKind, tt.wantCode)
		})
	}

	t.Run("success", func(t *testing.T) {
		o := base()
		repo := &mockRepository{
			getByIDFunc: func(ctx context.Context, id string) (*order.Order, error) { return o, nil },
			transitionFunc: func(ctx context.Context, id string, from, next order.Status, at time.Time) (bool, error) {
				assert.Equal(t, order.StatusAssigned, from)
				assert.Equal(t, order.StatusEnRouteToPickup, next)
				o.Status = next
				return true, nil
			},
		}
		svc := order.NewService(repo, defaultUsers(), defaultMenu(), defaultShops())
		view, err := svc.UpdateStatusByDeliverer(context.Background(), "rider-1", o.ID, order.StatusEnRouteToPickup)
		require.NoError(t, err)
		assert.Equal(t, order.StatusEnRouteToPickup, view.Status)
		assert.True(t, view.CanPickup)
	})
}

func TestService_CancelByCustomer(t *testing.T) {
	base := func() *order.Order {
		return &order.Order{
			ID:         "ord-ccc333",
			CustomerID: "cust-1",
			Status:     order.StatusAvailable,
			Dropoff:    order.Dropoff{Name: "Dorm A"},
		}
	}

	t.Run("not_owner", func(t *testing.T) {
		repo := &mockRepository{
			getByIDFunc: func(ctx context.Context, id string) (*order.Order, error) { return base(), nil },
		}
		svc := order.NewService(repo, defaultUsers(), defaultMenu(), defaultShops())
		_, err := svc.CancelByCustomer(context.Background(), "cust-2", "ord-ccc333")
		assertAppErr(t, err, apperr.KindForbidden, apperr.CodeForbidden)
	})

	t.Run("already_delivered", func(t *testing.T) {
		o := base()
		o.Status = order.StatusDelivered
		repo := &mockRepository{
			getByIDFunc: func(ctx context.Context, id string) (*order.Order, error) { return o, nil },
		}
		svc := order.NewService(repo, defaultUsers(), defaultMenu(), defaultShops())
		_, err := svc.CancelByCustomer(context.Background(), "cust-1", o.ID)
		assertAppErr(t, err, apperr.KindConflict, apperr.CodeOrderConflict)
	})

	t.Run("success", func(t *testing.T) {
		o := base()
		repo := &mockRepository{
			getByIDFunc: func(ctx context.Context, id string) (*order.Order, error) { return o, nil },
			transitionFunc: func(ctx context.Context, id string, from, next order.Status, at time.Time) (bool, error) {
				assert.Equal(t, order.StatusCancelled, next)
				o.Status = next
				return true, nil
			},
		}
		svc := order.NewService(repo, defaultUsers(), defaultMenu(), defaultShops())
		view, err := svc.CancelByCustomer(context.Background(), "cust-1", o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusCancelled, view.Status)
	})
}

func TestService_AttachRating(t *testing.T) {
	delivered := &order.Order{
		ID:         "ord-ddd444",
		CustomerID: "cust-1",
		Status:     order.StatusDelivered,
		Dropoff:    order.Dropoff{Name: "Dorm A"},
	}

	t.Run("score_out_of_range", func(t *testing.T) {
		svc := order.NewService(&mockRepository{}, defaultUsers(), defaultMenu(), defaultShops())
		_, err := svc.AttachRating(context.Background(), "cust-1", delivered.ID, 6, "")
		assertAppErr(t, err, apperr.KindValidation, apperr.CodeValidation)
	})

	t.Run("not_delivered", func(t *testing.T) {
		repo := &mockRepository{
			getByIDFunc: func(ctx context.Context, id string) (*order.Order, error) { return delivered, nil },
			attachRatingFunc: func(ctx context.Context, id string, r order.Rating) (bool, error) {
				return false, nil
			},
		}
		svc := order.NewService(repo, defaultUsers(), defaultMenu(), defaultShops())
		_, err := svc.AttachRating(context.Background(), "cust-1", delivered.ID, 5, "great")
		assertAppErr(t, err, apperr.KindConflict, apperr.CodeOrderConflict)
	})

	t.Run("success", func(t *testing.T) {
		repo := &mockRepository{
			getByIDFunc: func(ctx context.Context, id string) (*order.Order, error) { return delivered, nil },
			attachRatingFunc: func(ctx context.Context, id string, r order.Rating) (bool, error) {
				assert.Equal(t, int64(5), r.Score)
				return true, nil
			},
		}
		svc := order.NewService(repo, defaultUsers(), defaultMenu(), defaultShops())
		_, err := svc.AttachRating(context.Background(), "cust-1", delivered.ID, 5, "great")
		assert.NoError(t, err)
	})
}

func TestService_GetDelivery(t *testing.T) {
	t.Run("available_visible_to_any_deliverer", func(t *testing.T) {
		o := &order.Order{ID: "ord-eee555", Status: order.StatusAvailable, Dropoff: order.Dropoff{Name: "Dorm A"}}
		repo := &mockRepository{
			getByIDFunc: func(ctx context.Context, id string) (*order.Order, error) { return o, nil },
		}
		svc := order.NewService(repo, defaultUsers(), defaultMenu(), defaultShops())
		view, err := svc.GetDelivery(context.Background(), "rider-9", o.ID)
		require.NoError(t, err)
		assert.Nil(t, view.Customer)
	})

	t.Run("claimed_hidden_from_others", func(t *testing.T) {
		o := &order.Order{ID: "ord-eee555", Status: order.StatusAssigned, DelivererID: "rider-1"}
		repo := &mockRepository{
			getByIDFunc: func(ctx context.Context, id string) (*order.Order, error) { return o, nil },
		}
		svc := order.NewService(repo, defaultUsers(), defaultMenu(), defaultShops())
		_, err := svc.GetDelivery(context.Background(), "rider-2", o.ID)
		assertAppErr(t, err, apperr.KindForbidden, apperr.CodeForbidden)
	})
}

func TestService_UpdateStatusByRestaurant(t *testing.T) {
	base := func() *order.Order {
		return &order.Order{
			ID:           "ord-fff666",
			CustomerID:   "cust-1",
			RestaurantID: "shop-1",
			Status:       order.StatusAvailable,
		}
	}

	t.Run("wrong_restaurant", func(t *testing.T) {
		repo := &mockRepository{
			getByIDFunc: func(ctx context.Context, id string) (*order.Order, error) { return base(), nil },
		}
		svc := order.NewService(repo, defaultUsers(), defaultMenu(), defaultShops())
		_, err := svc.UpdateStatusByRestaurant(context.Background(), "shop-2", "ord-fff666", order.StatusCancelled)
		assertAppErr(t, err, apperr.KindForbidden, apperr.CodeForbidden)
	})

	t.Run("progression_not_allowed", func(t *testing.T) {
		repo := &mockRepository{
			getByIDFunc: func(ctx context.Context, id string) (*order.Order, error) { return base(), nil },
		}
		svc := order.NewService(repo, defaultUsers(), defaultMenu(), defaultShops())
		_, err := svc.UpdateStatusByRestaurant(context.Background(), "shop-1", "ord-fff666", order.StatusAssigned)
		assertAppErr(t, err, apperr.KindConflict, apperr.CodeOrderConflict)
	})

	t.Run("cancel_success", func(t *testing.T) {
		o := base()
		repo := &mockRepository{
			getByIDFunc: func(ctx context.Context, id string) (*order.Order, error) { return o, nil },
			transitionFunc: func(ctx context.Context, id string, from, next order.Status, at time.Time) (bool, error) {
				o.Status = next
				return true, nil
			},
		}
		svc := order.NewService(repo, defaultUsers(), defaultMenu(), defaultShops())
		view, err := svc.UpdateStatusByRestaurant(context.Background(), "shop-1", o.ID, order.StatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, order.StatusCancelled, view.Status)
	})
}

func TestService_Earnings(t *testing.T) {
	day1 := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 3, 9, 30, 0, 0, time.UTC)
	repo := &mockRepository{
		listFunc: func(ctx context.Context, f order.Filter) ([]order.Order, error) {
			assert.Equal(t, "rider-1", f.DelivererID)
			assert.Equal(t, []order.Status{order.StatusDelivered}, f.Statuses)
			return []order.Order{
				{ID: "ord-1", DeliveryFee: 40, PlacedAt: day1},
				{ID: "ord-2", DeliveryFee: 35, PlacedAt: day1},
				{ID: "ord-3", DeliveryFee: 50, PlacedAt: day2},
			}, nil
		},
	}
	svc := order.NewService(repo, defaultUsers(), defaultMenu(), defaultShops())

	report, err := svc.Earnings(context.Background(), "rider-1", "2026-03-01", "2026-03-07")
	require.NoError(t, err)
	assert.Equal(t, "TWD", report.Currency)
	assert.Equal(t, int64(125), report.TotalEarnings)
	assert.Equal(t, int64(3), report.TotalTasks)
	require.Len(t, report.ByDay, 2)
	assert.Equal(t, "2026-03-02", report.ByDay[0].Date)
	assert.Equal(t, int64(75), report.ByDay[0].TotalEarnings)
	assert.Equal(t, int64(2), report.ByDay[0].TaskCount)
	assert.Equal(t, "2026-03-03", report.ByDay[1].Date)
	assert.Equal(t, int64(50), report.ByDay[1].TotalEarnings)
}

func TestService_Earnings_InvalidRange(t *testing.T) {
	svc := order.NewService(&mockRepository{}, defaultUsers(), defaultMenu(), defaultShops())
	_, err := svc.Earnings(context.Background(), "rider-1", "2026-03-07", "2026-03-01")
	assertAppErr(t, err, apperr.KindValidation, apperr.CodeValidation)
}

func TestService_Report(t *testing.T) {
	repo := &mockRepository{
		listFunc: func(ctx context.Context, f order.Filter) ([]order.Order, error) {
			assert.Equal(t, "shop-1", f.RestaurantID)
			return []order.Order{
				{
					ID: "ord-1", TotalAmount: 400,
					Items: []order.LineItem{
						{Name: "Beef Noodles", Quantity: 2, Price: 180},
					},
				},
				{
					ID: "ord-2", TotalAmount: 250,
					Items: []order.LineItem{
						{Name: "Dumplings", Quantity: 1, Price: 120},
						{Name: "Beef Noodles", Quantity: 1, Price: 180},
					},
				},
			}, nil
		},
	}
	svc := order.NewService(repo, defaultUsers(), defaultMenu(), defaultShops())

	report, err := svc.Report(context.Background(), "shop-1", "7d")
	require.NoError(t, err)
	assert.Equal(t, int64(650), report.TotalRevenue)
	assert.Equal(t, int64(2), report.OrderCount)
	require.NotEmpty(t, report.TopItems)
	assert.Equal(t, "Beef Noodles", report.TopItems[0].Name)
	assert.Equal(t, int64(3), report.TopItems[0].Quantity)
	assert.Equal(t, int64(540), report.TopItems[0].Revenue)
}

func TestService_Report_UnknownRange(t *testing.T) {
	svc := order.NewService(&mockRepository{}, defaultUsers(), defaultMenu(), defaultShops())
	_, err := svc.Report(context.Background(), "shop-1", "90d")
	assertAppErr(t, err, apperr.KindValidation, apperr.CodeValidation)
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock database: %v", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})

	if err != nil {
		t.Fatalf("Failed to create GORM instance: %v", err)
	}

	return gormDB, mock
}

func newTestService(t *testing.T) (*EventService, sqlmock.Sqlmock, func()) {
	gormDB, mock := setupMockDB(t)
	cleanup := func() {
		sqlDB, _ := gormDB.DB()
		sqlDB.Close()
	}
	return NewEventService(gormDB, zap.NewNop()), mock, cleanup
}

func defaultPage() PageParams {
	p := PageParams{}
	p.Normalize(15, 100)
	return p
}

func eventRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "description", "date", "location", "created_at", "updated_at"})
}

func TestEventService_List_NoFilters(t *testing.T) {
	svc, mock, cleanup := newTestService(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT \* FROM "events" ORDER BY date asc LIMIT`).
		WillReturnRows(eventRows().
			AddRow(1, "First", "d1", now, "Berlin", now, now).
			AddRow(2, "Second", "d2", now, "Paris", now, now))

	events, meta, err := svc.List(context.Background(), EventFilter{}, defaultPage())

	assert.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, int64(2), meta.Total)
	assert.Equal(t, 1, meta.CurrentPage)
	assert.Equal(t, 1, meta.LastPage)
	assert.Equal(t, 1, meta.From)
	assert.Equal(t, 2, meta.To)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventService_List_DateRangeIsInclusiveInterval(t *testing.T) {
	svc, mock, cleanup := newTestService(t)
	defer cleanup()

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "events" WHERE date BETWEEN \$1 AND \$2`).
		WithArgs(start, end).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "events" WHERE date BETWEEN \$1 AND \$2 ORDER BY date asc`).
		WithArgs(start, end, sqlmock.AnyArg()).
		WillReturnRows(eventRows())

	filter := EventFilter{StartDate: &start, EndDate: &end}
	events, meta, err := svc.List(context.Background(), filter, defaultPage())

	assert.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, int64(0), meta.Total)
	assert.Equal(t, 0, meta.From)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventService_List_SearchMatchesTitleOrDescription(t *testing.T) {
	svc, mock, cleanup := newTestService(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "events" WHERE \(title ILIKE \$1 OR description ILIKE \$2\)`).
		WithArgs("%conf%", "%conf%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "events" WHERE \(title ILIKE \$1 OR description ILIKE \$2\) ORDER BY date asc`).
		WithArgs("%conf%", "%conf%", sqlmock.AnyArg()).
		WillReturnRows(eventRows())

	_, _, err := svc.List(context.Background(), EventFilter{Search: "conf"}, defaultPage())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventService_List_LocationSubstring(t *testing.T) {
	svc, mock, cleanup := newTestService(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "events" WHERE location ILIKE \$1`).
		WithArgs("%berlin%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "events" WHERE location ILIKE \$1 ORDER BY date asc`).
		WithArgs("%berlin%", sqlmock.AnyArg()).
		WillReturnRows(eventRows())

	_, _, err := svc.List(context.Background(), EventFilter{Location: "berlin"}, defaultPage())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventService_List_RejectsUnknownSortColumn(t *testing.T) {
	svc, mock, cleanup := newTestService(t)
	defer cleanup()

	page := defaultPage()
	page.SortBy = "pg_sleep(10)"

	_, _, err := svc.List(context.Background(), EventFilter{}, page)

	assert.ErrorIs(t, err, ErrInvalidSort)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventService_Get_NotFound(t *testing.T) {
	svc, mock, cleanup := newTestService(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "events" WHERE "events"."id" = \$1`).
		WillReturnRows(eventRows())

	event, err := svc.Get(context.Background(), 42)

	assert.Nil(t, event)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventService_Create_Success(t *testing.T) {
	svc, mock, cleanup := newTestService(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	event, err := svc.Create(context.Background(), CreateEventInput{
		Title:       "Launch",
		Description: "Product launch",
		Date:        time.Now().AddDate(0, 0, 1),
		Location:    "Berlin",
	})

	assert.NoError(t, err)
	assert.Equal(t, uint(7), event.ID)
	assert.Equal(t, "Launch", event.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventService_Delete_NotFound(t *testing.T) {
	svc, mock, cleanup := newTestService(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "events" WHERE "events"."id" = \$1`).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := svc.Delete(context.Background(), 42)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventService_Delete_Success(t *testing.T) {
	svc, mock, cleanup := newTestService(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "events" WHERE "events"."id" = \$1`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.Delete(context.Background(), 7)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventService_SyncTags_EmptySetClearsAssociations(t *testing.T) {
	svc, mock, cleanup := newTestService(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "events" WHERE "events"."id" = \$1`).
		WillReturnRows(eventRows().AddRow(3, "Meetup", "d", now, "Berlin", now, now))
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "event_tag"`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	tags, err := svc.SyncTags(context.Background(), 3, nil)

	assert.NoError(t, err)
	assert.Empty(t, tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventService_SyncTags_UnknownEvent(t *testing.T) {
	svc, mock, cleanup := newTestService(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "events" WHERE "events"."id" = \$1`).
		WillReturnRows(eventRows())

	tags, err := svc.SyncTags(context.Background(), 99, []uint{1})

	assert.Nil(t, tags)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventService_ExistingTagIDs(t *testing.T) {
	svc, mock, cleanup := newTestService(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT "id" FROM "tags" WHERE id IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(3))

	existing, err := svc.ExistingTagIDs(context.Background(), []uint{1, 2, 3})

	assert.NoError(t, err)
	assert.True(t, existing[1])
	assert.False(t, existing[2])
	assert.True(t, existing[3])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventService_ExistingTagIDs_NoIDs(t *testing.T) {
	svc, mock, cleanup := newTestService(t)
	defer cleanup()

	existing, err := svc.ExistingTagIDs(context.Background(), nil)

	assert.NoError(t, err)
	assert.Empty(t, existing)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventService_ListMedia_UnknownEvent(t *testing.T) {
	svc, mock, cleanup := newTestService(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT "id" FROM "events" WHERE "events"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := svc.ListMedia(context.Background(), 42, defaultPage())

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventService_ListPosts_Success(t *testing.T) {
	svc, mock, cleanup := newTestService(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT "id" FROM "events" WHERE "events"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "generated_posts" WHERE event_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM "generated_posts" WHERE event_id = \$1 ORDER BY id asc`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "content", "platform", "status", "created_at", "updated_at"}).
			AddRow(11, 5, "post body", "twitter", "draft", now, now))

	posts, meta, err := svc.ListPosts(context.Background(), 5, defaultPage())

	assert.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, int64(1), meta.Total)
	assert.Equal(t, "twitter", posts[0].Platform)
	assert.NoError(t, mock.ExpectationsWereMet())
}

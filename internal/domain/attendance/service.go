package attendance

import (
	"context"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/listquery"
)

type AttendanceService interface {
	ClockIn(ctx context.Context, session auth.Session) (Attendance, error)
	ClockOut(ctx context.Context, session auth.Session) (Attendance, error)
	List(ctx context.Context, session auth.Session, filter AttendanceFilter, params listquery.Params) (listquery.Result[Attendance], error)
	CreateHoliday(ctx context.Context, session auth.Session, req CreateHolidayRequest) (Holiday, error)
	ListHolidays(ctx context.Context, filter AttendanceFilter) ([]Holiday, error)
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kabadiconnect/kabadi-backend/internal/apperrors"
	"github.com/kabadiconnect/kabadi-backend/internal/models"
	"github.com/rs/zerolog"
)

type bookingFixture struct {
	bookings   *fakeBookingRepo
	citizens   *fakeCitizenRepo
	collectors *fakeCollectorRepo
	svc        *BookingService
}

func newBookingFixture() *bookingFixture {
	f := &bookingFixture{
		bookings:   newFakeBookingRepo(),
		citizens:   newFakeCitizenRepo(),
		collectors: newFakeCollectorRepo(),
	}
	f.svc = NewBookingService(f.bookings, f.citizens, f.collectors, zerolog.Nop())
	return f
}

func (f *bookingFixture) addCitizen(t *testing.T, c *models.Citizen) primitive.ObjectID {
	t.Helper()
	if c.Mobile == "" {
		c.Mobile = "9123456780"
	}
	require.NoError(t, f.citizens.Create(context.Background(), c))
	return c.ID
}

func TestBookingCreate_DefaultsToProfileAddress(t *testing.T) {
	f := newBookingFixture()
	id := f.addCitizen(t, &models.Citizen{Name: "Sita", AddressLine1: "12 MG Road", AddressLine2: "Shivajinagar"})

	booking, err := f.svc.Create(context.Background(), id.Hex(), BookingRequest{
		ScheduledAt:  time.Now().Add(24 * time.Hour),
		MaterialType: "paper",
	})
	require.NoError(t, err)
	assert.Equal(t, "12 MG Road, Shivajinagar", booking.PickupAddress)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
}

func TestBookingCreate_NoAddressAnywhere(t *testing.T) {
	f := newBookingFixture()
	id := f.addCitizen(t, &models.Citizen{Name: "Sita"})

	_, err := f.svc.Create(context.Background(), id.Hex(), BookingRequest{ScheduledAt: time.Now()})
	assert.True(t, apperrors.IsValidation(err))
}

func TestBookingEdit_OnlyPending(t *testing.T) {
	f := newBookingFixture()
	citizenID := f.addCitizen(t, &models.Citizen{Name: "Sita", AddressLine1: "12 MG Road"})
	collectorID := primitive.NewObjectID()

	booking, err := f.svc.Create(context.Background(), citizenID.Hex(), BookingRequest{ScheduledAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	addr := "45 FC Road"
	edited, err := f.svc.Edit(context.Background(), citizenID.Hex(), booking.ID.Hex(), BookingUpdate{PickupAddress: &addr})
	require.NoError(t, err)
	assert.Equal(t, "45 FC Road", edited.PickupAddress)

	_, err = f.svc.UpdateStatus(context.Background(), collectorID.Hex(), booking.ID.Hex(), models.BookingStatusAccepted)
	require.NoError(t, err)

	_, err = f.svc.Edit(context.Background(), citizenID.Hex(), booking.ID.Hex(), BookingUpdate{PickupAddress: &addr})
	assert.True(t, apperrors.IsInvalidState(err))
}

func TestBookingStatus_Lifecycle(t *testing.T) {
	f := newBookingFixture()
	citizenID := f.addCitizen(t, &models.Citizen{Name: "Sita", AddressLine1: "12 MG Road"})
	collectorID := primitive.NewObjectID()

	booking, err := f.svc.Create(context.Background(), citizenID.Hex(), BookingRequest{ScheduledAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	// cannot complete a booking that was never accepted
	_, err = f.svc.UpdateStatus(context.Background(), collectorID.Hex(), booking.ID.Hex(), models.BookingStatusCompleted)
	assert.True(t, apperrors.IsInvalidState(err))

	accepted, err := f.svc.UpdateStatus(context.Background(), collectorID.Hex(), booking.ID.Hex(), models.BookingStatusAccepted)
	require.NoError(t, err)
	require.NotNil(t, accepted.CollectorID)
	assert.Equal(t, collectorID, *accepted.CollectorID)

	// another collector cannot touch a claimed booking
	other := primitive.NewObjectID()
	_, err = f.svc.UpdateStatus(context.Background(), other.Hex(), booking.ID.Hex(), models.BookingStatusCompleted)
	assert.True(t, apperrors.IsInvalidState(err))

	completed, err := f.svc.UpdateStatus(context.Background(), collectorID.Hex(), booking.ID.Hex(), models.BookingStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, completed.Status)

	// terminal states never change again
	_, err = f.svc.UpdateStatus(context.Background(), collectorID.Hex(), booking.ID.Hex(), models.BookingStatusAccepted)
	assert.True(t, apperrors.IsInvalidState(err))
}

func TestBookingStatus_UnknownStatus(t *testing.T) {
	f := newBookingFixture()
	citizenID := f.addCitizen(t, &models.Citizen{Name: "Sita", AddressLine1: "12 MG Road"})

	booking, err := f.svc.Create(context.Background(), citizenID.Hex(), BookingRequest{ScheduledAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), primitive.NewObjectID().Hex(), booking.ID.Hex(), "SHIPPED")
	assert.True(t, apperrors.IsValidation(err))
}

func TestBookingCancel(t *testing.T) {
	f := newBookingFixture()
	citizenID := f.addCitizen(t, &models.Citizen{Name: "Sita", AddressLine1: "12 MG Road"})

	booking, err := f.svc.Create(context.Background(), citizenID.Hex(), BookingRequest{ScheduledAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(context.Background(), citizenID.Hex(), booking.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)

	_, err = f.svc.Cancel(context.Background(), citizenID.Hex(), booking.ID.Hex())
	assert.True(t, apperrors.IsInvalidState(err))
}

func TestBookingCancel_NotOwner(t *testing.T) {
	f := newBookingFixture()
	owner := f.addCitizen(t, &models.Citizen{Name: "Sita", AddressLine1: "12 MG Road"})
	stranger := f.addCitizen(t, &models.Citizen{Name: "Gita", Mobile: "9123456781"})

	booking, err := f.svc.Create(context.Background(), owner.Hex(), BookingRequest{ScheduledAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), stranger.Hex(), booking.ID.Hex())
	assert.True(t, apperrors.IsNotFound(err))
}

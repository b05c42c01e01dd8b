package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Tengorio/12pavos/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxRelayerDrain(t *testing.T) {
	db := newTestDB(t)

	rows := []model.ExchangeOutbox{
		{EventType: "claim", WishID: 1, ActorID: 2, Payload: "{}"},
		{EventType: "release", WishID: 1, ActorID: 2, Payload: "{}"},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	// 第一条失败，第二条成功
	var sent []uint64
	sender := func(ctx context.Context, ob *model.ExchangeOutbox) error {
		if ob.ID == rows[0].ID {
			return errors.New("broker down")
		}
		sent = append(sent, ob.ID)
		return nil
	}

	r := NewOutboxRelayer(db, sender)
	r.drainOnce(context.Background())

	assert.Equal(t, []uint64{rows[1].ID}, sent)

	var failed model.ExchangeOutbox
	require.NoError(t, db.First(&failed, rows[0].ID).Error)
	assert.Equal(t, int8(2), failed.Status)
	assert.Equal(t, 1, failed.Retry)

	var ok model.ExchangeOutbox
	require.NoError(t, db.First(&ok, rows[1].ID).Error)
	assert.Equal(t, int8(1), ok.Status)

	// 失败的不再处于 pending，不会被重复拉取
	var pending []model.ExchangeOutbox
	require.NoError(t, db.Where("status = 0").Find(&pending).Error)
	assert.Empty(t, pending)
}

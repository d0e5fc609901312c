package store

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runPreferenceStoreSuite checks the behaviour every PreferenceStore shares.
func runPreferenceStoreSuite(t *testing.T, newStore func(t *testing.T) PreferenceStore) {
	t.Run("get missing key", func(t *testing.T) {
		s := newStore(t)
		v, ok, err := s.Get(context.Background(), KeyVaultPin)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, KeyVaultPin, "194733"))
		v, ok, err := s.Get(ctx, KeyVaultPin)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "194733", v)
	})

	t.Run("empty value is distinct from absent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, KeyUserRole, ""))
		v, ok, err := s.Get(ctx, KeyUserRole)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, v)
	})

	t.Run("overwrite", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, KeyFailedAttempts, "1"))
		require.NoError(t, s.Set(ctx, KeyFailedAttempts, "2"))
		v, _, err := s.Get(ctx, KeyFailedAttempts)
		require.NoError(t, err)
		assert.Equal(t, "2", v)
	})

	t.Run("remove several keys", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, KeyFailedAttempts, "3"))
		require.NoError(t, s.Set(ctx, KeyLockoutUntil, "1000"))
		require.NoError(t, s.Set(ctx, KeyUserRole, "admin"))

		require.NoError(t, s.Remove(ctx, KeyFailedAttempts, KeyLockoutUntil))

		_, ok, err := s.Get(ctx, KeyFailedAttempts)
		require.NoError(t, err)
		assert.False(t, ok)
		_, ok, err = s.Get(ctx, KeyLockoutUntil)
		require.NoError(t, err)
		assert.False(t, ok)
		_, ok, err = s.Get(ctx, KeyUserRole)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("remove nothing", func(t *testing.T) {
		s := newStore(t)
		assert.NoError(t, s.Remove(context.Background()))
	})

	t.Run("update commits", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, KeyLockoutUntil, "5"))

		err := s.Update(ctx, func(tx PreferenceTx) error {
			if err := tx.Set(KeyFailedAttempts, "1"); err != nil {
				return err
			}
			v, ok, err := tx.Get(KeyFailedAttempts)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "1", v)

			if err := tx.Remove(KeyLockoutUntil); err != nil {
				return err
			}
			_, ok, err = tx.Get(KeyLockoutUntil)
			require.NoError(t, err)
			assert.False(t, ok)
			return nil
		})
		require.NoError(t, err)

		v, ok, err := s.Get(ctx, KeyFailedAttempts)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "1", v)
		_, ok, err = s.Get(ctx, KeyLockoutUntil)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("update rolls back on error", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, KeyVaultPin, "194733"))

		boom := errors.New("boom")
		err := s.Update(ctx, func(tx PreferenceTx) error {
			require.NoError(t, tx.Remove(KeyVaultPin))
			require.NoError(t, tx.Set(KeyFailedAttempts, "9"))
			return boom
		})
		assert.ErrorIs(t, err, boom)

		v, ok, err := s.Get(ctx, KeyVaultPin)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "194733", v)
		_, ok, err = s.Get(ctx, KeyFailedAttempts)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("concurrent increments are not lost", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		const workers = 20
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := s.Update(ctx, func(tx PreferenceTx) error {
					raw, _, err := tx.Get(KeyFailedAttempts)
					if err != nil {
						return err
					}
					n, _ := strconv.Atoi(raw)
					return tx.Set(KeyFailedAttempts, strconv.Itoa(n+1))
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		v, _, err := s.Get(ctx, KeyFailedAttempts)
		require.NoError(t, err)
		assert.Equal(t, strconv.Itoa(workers), v)
	})
}

package auth

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPersister struct {
	MemoryPersister
	err error
}

func (f *failingPersister) Save(context.Context, string) error { return f.err }

func TestStoreLoginLogout(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, &MemoryPersister{})
	require.NoError(t, err)
	assert.Equal(t, State{}, s.State())

	require.NoError(t, s.Login(ctx, " 42 "))
	assert.Equal(t, State{AccountID: "42", Authenticated: true}, s.State())
	assert.Equal(t, "42", s.AccountID())

	require.NoError(t, s.Login(ctx, "7"))
	assert.Equal(t, "7", s.AccountID(), "last write wins")

	require.NoError(t, s.Logout(ctx))
	assert.False(t, s.State().Authenticated)
}

// yieldingPersister yields inside Save so concurrent writers interleave.
type yieldingPersister struct {
	MemoryPersister
}

func (y *yieldingPersister) Save(ctx context.Context, id string) error {
	runtime.Gosched()
	return y.MemoryPersister.Save(ctx, id)
}

func TestStoreConcurrentWritesAgree(t *testing.T) {
	ctx := context.Background()
	p := &yieldingPersister{}
	s, err := Open(ctx, p)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%5 == 0 {
				assert.NoError(t, s.Logout(ctx))
				return
			}
			assert.NoError(t, s.Login(ctx, strconv.Itoa(i)))
		}()
	}
	wg.Wait()

	stored, err := p.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, stored, s.AccountID())
}

func TestStoreRejectsEmptyAccount(t *testing.T) {
	s, err := Open(context.Background(), &MemoryPersister{})
	require.NoError(t, err)
	assert.ErrorIs(t, s.Login(context.Background(), "  "), ErrEmptyAccount)
}

func TestStoreInitialisedFromPersister(t *testing.T) {
	p := &MemoryPersister{id: "99"}
	s, err := Open(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, State{AccountID: "99", Authenticated: true}, s.State())
}

func TestStoreSaveFailureKeepsState(t *testing.T) {
	boom := errors.New("disk full")
	s, err := Open(context.Background(), &failingPersister{err: boom})
	require.NoError(t, err)

	var calls int
	s.Subscribe(func(State) { calls++ })

	err = s.Login(context.Background(), "1")
	assert.ErrorIs(t, err, boom)
	assert.False(t, s.State().Authenticated)
	assert.Zero(t, calls)
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, &MemoryPersister{})
	require.NoError(t, err)

	var got []string
	unsubA := s.Subscribe(func(st State) { got = append(got, "a:"+st.AccountID) })
	s.Subscribe(func(st State) { got = append(got, "b:"+st.AccountID) })

	require.NoError(t, s.Login(ctx, "1"))
	unsubA()
	unsubA()
	require.NoError(t, s.Logout(ctx))

	assert.Equal(t, []string{"a:1", "b:1", "b:"}, got)
}

func TestSQLitePersister(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "hxdash.db")

	p, err := OpenSQLite(path)
	require.NoError(t, err)

	id, err := p.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, id)

	s, err := Open(ctx, p)
	require.NoError(t, err)
	require.NoError(t, s.Login(ctx, "12"))
	require.NoError(t, s.Login(ctx, "13"))
	require.NoError(t, p.Close())

	p, err = OpenSQLite(path)
	require.NoError(t, err)
	defer p.Close()

	s, err = Open(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "13", s.AccountID())

	require.NoError(t, s.Logout(ctx))
	id, err = p.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, id)
}

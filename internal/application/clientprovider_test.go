package application_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domenectl/domenectl/internal/application"
	"github.com/domenectl/domenectl/internal/domain/model"
)

func TestClientProvider_GetReturnsInitialClient(t *testing.T) {
	client := &fakeRegistrar{}
	provider := application.NewClientProvider(client, "Work", model.SourceKeychain)

	assert.Same(t, client, provider.Get())
	assert.Equal(t, "Work", provider.Account())
	assert.Equal(t, model.SourceKeychain, provider.Source())
	assert.True(t, provider.HasClient())
}

func TestClientProvider_NilClientMeansSignedOut(t *testing.T) {
	provider := application.NewClientProvider(nil, "", "")

	assert.Nil(t, provider.Get())
	assert.False(t, provider.HasClient())
}

func TestClientProvider_ReplaceSwapsClient(t *testing.T) {
	original := &fakeRegistrar{}
	replacement := &fakeRegistrar{}
	provider := application.NewClientProvider(original, "Old", model.SourceFile)

	provider.Replace(replacement, "New", model.SourceInteractive)

	assert.Same(t, replacement, provider.Get())
	assert.Equal(t, "New", provider.Account())
	assert.Equal(t, model.SourceInteractive, provider.Source())
}

func TestClientProvider_ConcurrentAccess(t *testing.T) {
	provider := application.NewClientProvider(&fakeRegistrar{}, "A", model.SourceFile)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			provider.Replace(&fakeRegistrar{}, "B", model.SourceKeychain)
		}()
		go func() {
			defer wg.Done()
			_ = provider.Get()
			_ = provider.Account()
		}()
	}
	wg.Wait()

	require.NotNil(t, provider.Get())
}

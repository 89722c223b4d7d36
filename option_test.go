package structdump

import (
	"reflect"
	"testing"
	"time"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWithPackage(t *testing.T) {
	t.Run("sets package", func(t *testing.T) {
		c := &Config{}
		err := WithPackage("example.com/app/data")(c)

		require.NoError(t, err)
		assert.Equal(t, "example.com/app/data", c.Package)
	})

	t.Run("empty package returns error", func(t *testing.T) {
		c := &Config{}
		err := WithPackage("")(c)

		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}

func TestWithPrefix(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		wantErr bool
	}{
		{"identifier", "v", false},
		{"underscore", "_tmp", false},
		{"mixed case", "dumpVar", false},
		{"empty", "", true},
		{"leading digit", "1v", true},
		{"keyword", "func", true},
		{"space", "a b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			err := WithPrefix(tt.prefix)(c)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.prefix, c.Prefix)
			}
		})
	}
}

func TestWithMaxDepth(t *testing.T) {
	t.Run("sets depth", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, WithMaxDepth(8)(c))
		assert.Equal(t, 8, c.MaxDepth)
	})

	t.Run("zero disables the limit", func(t *testing.T) {
		c := &Config{MaxDepth: 3}
		require.NoError(t, WithMaxDepth(0)(c))
		assert.Zero(t, c.MaxDepth)
	})

	t.Run("negative depth returns error", func(t *testing.T) {
		c := &Config{}
		err := WithMaxDepth(-1)(c)

		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}

func TestWithLogger(t *testing.T) {
	t.Run("sets logger", func(t *testing.T) {
		logger := zap.NewExample()
		c := &Config{}
		require.NoError(t, WithLogger(logger)(c))
		assert.Same(t, logger, c.Logger)
	})

	t.Run("nil logger returns error", func(t *testing.T) {
		c := &Config{}
		err := WithLogger(nil)(c)

		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}

func TestWithTypeFunc(t *testing.T) {
	fn := func(e *Emitter, v reflect.Value, unique bool) Code {
		return NewCode(jen.Lit(0), jen.Int())
	}

	t.Run("registers by sample type", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, WithTypeFunc(time.Duration(0), fn)(c))
		assert.Contains(t, c.TypeFuncs, reflect.TypeFor[time.Duration]())
	})

	t.Run("nil sample returns error", func(t *testing.T) {
		err := WithTypeFunc(nil, fn)(&Config{})
		assert.True(t, IsConfigError(err))
	})

	t.Run("nil function returns error", func(t *testing.T) {
		err := WithTypeFunc(0, nil)(&Config{})
		assert.True(t, IsConfigError(err))
	})
}

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, err := NewConfig()

		require.NoError(t, err)
		assert.Equal(t, DefaultPrefix, c.Prefix)
		assert.NotNil(t, c.Logger)
		assert.False(t, c.PointerIdentity)
		assert.Contains(t, c.TypeFuncs, reflect.TypeFor[time.Time]())
	})

	t.Run("type funcs are copied per config", func(t *testing.T) {
		c, err := NewConfig(WithTypeFunc(0, func(*Emitter, reflect.Value, bool) Code { return Code{} }))
		require.NoError(t, err)
		assert.Contains(t, c.TypeFuncs, reflect.TypeFor[int]())
		assert.NotContains(t, knownTypes, reflect.TypeFor[int]())
	})

	t.Run("first error is returned", func(t *testing.T) {
		_, err := NewConfig(WithPrefix("1"), WithMaxDepth(-1))

		require.Error(t, err)
		var cerr *ConfigError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "Prefix", cerr.Option)
	})
}

func TestConfigApplyAll(t *testing.T) {
	c := &Config{}
	err := c.ApplyAll(WithPrefix("1"), WithMaxDepth(-1), WithPointerIdentity())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Prefix")
	assert.Contains(t, err.Error(), "MaxDepth")
	assert.True(t, c.PointerIdentity)
}

func TestMustNewConfig(t *testing.T) {
	assert.NotPanics(t, func() { MustNewConfig(WithPrefix("v")) })
	assert.Panics(t, func() { MustNewConfig(WithPrefix("")) })
}

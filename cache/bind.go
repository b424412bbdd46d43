package cache

import "context"

// The Bind functions attach an operation of API to c under name and return
// its cached call site. fn receives the original API value as its first
// argument, so method expressions bind directly:
//
//	get := cache.Bind1(c, "GetUser", (*UserService).GetUser)
//
// Binding a name twice yields call sites sharing one table.

// Bind0 binds an operation without arguments. All its calls share
// NoArgsKey.
func Bind0[API, R any](c *Cached[API], name string, fn func(API, context.Context) (R, error)) func(context.Context) (R, error) {
	c.register(name)
	return func(ctx context.Context) (R, error) {
		return result[R](c.call(ctx, name, nil, func(ctx context.Context) (any, error) {
			return fn(c.state.API, ctx)
		}))
	}
}

// Bind1 binds an operation with one argument.
func Bind1[API, A, R any](c *Cached[API], name string, fn func(API, context.Context, A) (R, error)) func(context.Context, A) (R, error) {
	c.register(name)
	return func(ctx context.Context, a A) (R, error) {
		return result[R](c.call(ctx, name, []any{a}, func(ctx context.Context) (any, error) {
			return fn(c.state.API, ctx, a)
		}))
	}
}

// Bind2 binds an operation with two arguments.
func Bind2[API, A, B, R any](c *Cached[API], name string, fn func(API, context.Context, A, B) (R, error)) func(context.Context, A, B) (R, error) {
	c.register(name)
	return func(ctx context.Context, a A, b B) (R, error) {
		return result[R](c.call(ctx, name, []any{a, b}, func(ctx context.Context) (any, error) {
			return fn(c.state.API, ctx, a, b)
		}))
	}
}

// Bind3 binds an operation with three arguments.
func Bind3[API, A, B, C, R any](c *Cached[API], name string, fn func(API, context.Context, A, B, C) (R, error)) func(context.Context, A, B, C) (R, error) {
	c.register(name)
	return func(ctx context.Context, a A, b B, x C) (R, error) {
		return result[R](c.call(ctx, name, []any{a, b, x}, func(ctx context.Context) (any, error) {
			return fn(c.state.API, ctx, a, b, x)
		}))
	}
}

// BindN binds a variadic operation. Calls without arguments share
// NoArgsKey.
func BindN[API, R any](c *Cached[API], name string, fn func(API, context.Context, ...any) (R, error)) func(context.Context, ...any) (R, error) {
	c.register(name)
	return func(ctx context.Context, args ...any) (R, error) {
		return result[R](c.call(ctx, name, args, func(ctx context.Context) (any, error) {
			return fn(c.state.API, ctx, args...)
		}))
	}
}

func result[R any](v any, err error) (R, error) {
	r, _ := v.(R)
	return r, err
}

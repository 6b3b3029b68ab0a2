package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRole(t *testing.T) {
	tenantID := uuid.New()

	t.Run("valid role", func(t *testing.T) {
		role, err := NewRole(tenantID, "Dispatcher", "Dispatcher")
		require.NoError(t, err)
		assert.Equal(t, "dispatcher", role.Code)
		assert.True(t, role.IsEnabled)
		assert.False(t, role.IsSystem)
		assert.True(t, role.CanDelete())
	})

	t.Run("system role cannot be deleted or renamed", func(t *testing.T) {
		role, err := NewSystemRole(tenantID, "admin", "Administrator")
		require.NoError(t, err)
		assert.True(t, role.IsSystem)
		assert.False(t, role.CanDelete())
		assert.Error(t, role.SetName("Other"))
		assert.Error(t, role.Disable())
	})

	t.Run("invalid codes rejected", func(t *testing.T) {
		for _, code := range []string{"", "bad code", "bad:code"} {
			_, err := NewRole(tenantID, code, "Name")
			assert.Error(t, err, code)
		}
	})
}

func TestRolePermissions(t *testing.T) {
	tenantID := uuid.New()
	role, _ := NewRole(tenantID, "dispatcher", "Dispatcher")

	ordersRead := NewPermission(ResourceOrders, ActionRead)
	ordersCreate := NewPermission(ResourceOrders, ActionCreate)

	require.NoError(t, role.GrantPermission(ordersRead))
	assert.True(t, role.HasPermission("orders:read"))
	assert.Error(t, role.GrantPermission(ordersRead), "duplicate grant")

	require.NoError(t, role.GrantPermission(ordersCreate))
	assert.ElementsMatch(t, []string{"orders:read", "orders:create"}, role.PermissionCodes())

	require.NoError(t, role.RevokePermission("orders:read"))
	assert.False(t, role.HasPermission("orders:read"))
	assert.Error(t, role.RevokePermission("orders:read"), "already revoked")

	require.NoError(t, role.SetPermissions(CRUDPermissions(ResourceShipments)))
	assert.Len(t, role.Permissions, 4)
	assert.True(t, role.HasPermission("shipments:delete"))
}

func TestPermissionValueObject(t *testing.T) {
	t.Run("code format", func(t *testing.T) {
		p := NewPermission(ResourceCarrierInvoices, ActionApprove)
		assert.Equal(t, "carrier-invoices:approve", p.Code)
	})

	t.Run("parse from code", func(t *testing.T) {
		p, err := NewPermissionFromCode("Orders:Read")
		require.NoError(t, err)
		assert.Equal(t, "orders:read", p.Code)

		_, err = NewPermissionFromCode("no-separator")
		assert.Error(t, err)
		_, err = NewPermissionFromCode(":read")
		assert.Error(t, err)
	})

	t.Run("equality", func(t *testing.T) {
		a := NewPermission(ResourceOrders, ActionRead)
		b, _ := NewPermissionFromCode("orders:read")
		assert.True(t, a.Equals(b))
	})
}

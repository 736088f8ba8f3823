package authz

import "fmt"

// RoleSeed 预置岗位：名称、继承的岗位与默认策略
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 门店预置岗位角色
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role:     "manager",
			Policies: []Policy{
				{Object: "/admin/*", Action: "*"},
			},
		},
		{
			Role:     "order_desk",
			Policies: []Policy{
				{Object: "/admin/drafts", Action: "*"},
				{Object: "/admin/drafts/*", Action: "*"},
				{Object: "/admin/orders", Action: "*"},
				{Object: "/admin/orders/*", Action: "*"},
				{Object: "/admin/tiffins", Action: "*"},
				{Object: "/admin/tiffins/*", Action: "*"},
				{Object: "/admin/customers", Action: "GET"},
				{Object: "/admin/customers/*", Action: "*"},
				{Object: "/admin/menu-items", Action: "GET"},
				{Object: "/admin/menu-items/*", Action: "GET"},
				{Object: "/admin/zones", Action: "GET"},
				{Object: "/admin/zones/match", Action: "GET"},
				{Object: "/admin/deliveries", Action: "GET"},
			},
		},
		{
			Role:     "kitchen",
			Policies: []Policy{
				{Object: "/admin/orders", Action: "GET"},
				{Object: "/admin/orders/:id", Action: "GET"},
				{Object: "/admin/orders/:id", Action: "PATCH"},
				{Object: "/admin/menu-items", Action: "GET"},
				{Object: "/admin/menu-items/*", Action: "GET"},
				{Object: "/admin/deliveries", Action: "GET"},
			},
		},
		{
			Role:     "delivery",
			Policies: []Policy{
				{Object: "/admin/deliveries", Action: "GET"},
				{Object: "/admin/deliveries/:id", Action: "PATCH"},
				{Object: "/admin/orders/:id", Action: "GET"},
				{Object: "/admin/zones", Action: "GET"},
			},
		},
		{
			Role:     "accountant",
			Policies: []Policy{
				{Object: "/admin/reports/*", Action: "GET"},
				{Object: "/admin/expenses", Action: "*"},
				{Object: "/admin/expenses/:id", Action: "*"},
				{Object: "/admin/orders", Action: "GET"},
				{Object: "/admin/orders/:id", Action: "GET"},
				{Object: "/admin/orders/:id/payments", Action: "POST"},
				{Object: "/admin/orders/:id/invoice", Action: "GET"},
				{Object: "/admin/tiffins", Action: "GET"},
				{Object: "/admin/tiffins/:id", Action: "GET"},
				{Object: "/admin/tiffins/:id/payments", Action: "POST"},
				{Object: "/admin/tiffins/:id/invoice", Action: "GET"},
				{Object: "/admin/stores", Action: "GET"},
				{Object: "/admin/staff", Action: "GET"},
			},
		},
	}
}

// IsBuiltinRole 是否为预置岗位（接受带或不带 role: 前缀的名称）
func IsBuiltinRole(role string) bool {
	normalized, err := NormalizeRole(role)
	if err != nil {
		return false
	}
	for _, seed := range BuiltinRoleSeeds() {
		if rolePrefix+seed.Role == normalized {
			return true
		}
	}
	return false
}

// BootstrapBuiltinRoles 补齐预置岗位与默认策略，可重复执行；
// 已被管理员撤销的默认策略会在下次启动时恢复
func (s *Service) BootstrapBuiltinRoles() error {
	if err := s.ready(); err != nil {
		return err
	}
	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return fmt.Errorf("ensure builtin role %s failed: %w", seed.Role, err)
		}
		for _, parent := range seed.Inherits {
			parentRole, err := s.EnsureRole(parent)
			if err != nil {
				return err
			}
			if err := s.link(role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}
		for _, policy := range seed.Policies {
			if err := s.GrantRolePolicy(role, policy.Object, policy.Action); err != nil {
				return fmt.Errorf("seed policy %s %s for %s failed: %w", policy.Action, policy.Object, role, err)
			}
		}
	}
	return nil
}

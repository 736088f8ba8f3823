package authz

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const (
	ruleTable = "casbin_rule"
	grouping  = "g"
)

// 主体为 admin:<id> 或 role:<name>；岗位之间可继承。
// 空岗位挂在 roleAnchor 下，保证没有策略时也能被列出
const rbacModelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = keyMatch2(r.obj, p.obj) && (p.act == "*" || r.act == p.act) && (r.sub == p.sub || g(r.sub, p.sub))
`

var (
	ErrUnavailable    = errors.New("authz service unavailable")
	ErrRoleRequired   = errors.New("role is required")
	ErrRoleReserved   = errors.New("role name is reserved")
	ErrRoleBuiltin    = errors.New("builtin role cannot be deleted")
	ErrActionRequired = errors.New("action is required")
	ErrAdminRequired  = errors.New("admin id is required")
)

// Policy 一条授权：Subject 以 Action 访问 Object
type Policy struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
	Action  string `json:"action"`
}

func comparePolicies(a, b Policy) int {
	if c := strings.Compare(a.Subject, b.Subject); c != 0 {
		return c
	}
	if c := strings.Compare(a.Object, b.Object); c != 0 {
		return c
	}
	return strings.Compare(a.Action, b.Action)
}

// RoleSummary 岗位列表项
type RoleSummary struct {
	Role     string `json:"role"`
	Builtin  bool   `json:"builtin"`
	Members  int    `json:"members"`
	Policies int    `json:"policies"`
}

// Service 岗位授权，规则持久化在 casbin_rule 表，写入即落库
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: db is nil", ErrUnavailable)
	}
	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", ruleTable)
	if err != nil {
		return nil, fmt.Errorf("authz: adapter: %w", err)
	}
	m, err := model.NewModelFromString(rbacModelText)
	if err != nil {
		return nil, fmt.Errorf("authz: model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("authz: enforcer: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("authz: load rules: %w", err)
	}
	return &Service{enforcer: enforcer}, nil
}

func (s *Service) ready() error {
	if s == nil || s.enforcer == nil {
		return ErrUnavailable
	}
	return nil
}

// roleOp 校验服务可用并规范化岗位名
func (s *Service) roleOp(role string) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	return NormalizeRole(role)
}

// EnforceAdmin obj 可带 /api/v1 前缀，act 不区分大小写
func (s *Service) EnforceAdmin(adminID uint, obj, act string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	return s.enforcer.Enforce(SubjectForAdmin(adminID), NormalizeObject(obj), NormalizeAction(act))
}

// EnsureRole 幂等创建岗位，返回规范化名称
func (s *Service) EnsureRole(role string) (string, error) {
	name, err := s.roleOp(role)
	if err != nil {
		return "", err
	}
	if err := s.link(name, roleAnchor); err != nil {
		return "", fmt.Errorf("authz: create %s: %w", name, err)
	}
	return name, nil
}

func (s *Service) link(child, parent string) error {
	exists, err := s.enforcer.HasNamedGroupingPolicy(grouping, child, parent)
	if err != nil || exists {
		return err
	}
	_, err = s.enforcer.AddNamedGroupingPolicy(grouping, child, parent)
	return err
}

// ListRoles 全部岗位名，含尚无策略的空岗位
func (s *Service) ListRoles() ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	links, err := s.enforcer.GetFilteredNamedGroupingPolicy(grouping, 0)
	if err != nil {
		return nil, fmt.Errorf("authz: list roles: %w", err)
	}
	var roles []string
	for _, link := range links {
		for _, name := range link {
			if isRoleName(name) {
				roles = append(roles, name)
			}
		}
	}
	slices.Sort(roles)
	return slices.Compact(roles), nil
}

// ListRoleSummaries 岗位列表附带成员数与直接策略数
func (s *Service) ListRoleSummaries() ([]RoleSummary, error) {
	roles, err := s.ListRoles()
	if err != nil {
		return nil, err
	}
	members := make(map[string]int, len(roles))
	links, err := s.enforcer.GetFilteredNamedGroupingPolicy(grouping, 0)
	if err != nil {
		return nil, fmt.Errorf("authz: list members: %w", err)
	}
	for _, link := range links {
		if len(link) >= 2 && strings.HasPrefix(link[0], adminSubject) {
			members[link[1]]++
		}
	}

	summaries := make([]RoleSummary, 0, len(roles))
	for _, role := range roles {
		rules, err := s.enforcer.GetFilteredPolicy(0, role)
		if err != nil {
			return nil, fmt.Errorf("authz: policies of %s: %w", role, err)
		}
		summaries = append(summaries, RoleSummary{
			Role:     role,
			Builtin:  IsBuiltinRole(role),
			Members:  members[role],
			Policies: len(rules),
		})
	}
	return summaries, nil
}

// DeleteRole 删除自定义岗位、其策略及成员关系；预置岗位返回 ErrRoleBuiltin
func (s *Service) DeleteRole(role string) error {
	name, err := s.roleOp(role)
	if err != nil {
		return err
	}
	if IsBuiltinRole(name) {
		return ErrRoleBuiltin
	}
	if _, err := s.enforcer.RemoveFilteredPolicy(0, name); err != nil {
		return fmt.Errorf("authz: drop policies of %s: %w", name, err)
	}
	// 岗位既可能是子节点（挂锚点、继承父岗位），也可能是父节点（成员与子岗位）
	for _, field := range []int{0, 1} {
		if _, err := s.enforcer.RemoveFilteredNamedGroupingPolicy(grouping, field, name); err != nil {
			return fmt.Errorf("authz: unlink %s: %w", name, err)
		}
	}
	return nil
}

// GrantRolePolicy 授权；岗位不存在时一并创建
func (s *Service) GrantRolePolicy(role, object, action string) error {
	name, err := s.EnsureRole(role)
	if err != nil {
		return err
	}
	act := NormalizeAction(action)
	if act == "" {
		return ErrActionRequired
	}
	if _, err := s.enforcer.AddPolicy(name, NormalizeObject(object), act); err != nil {
		return fmt.Errorf("authz: grant %s %s to %s: %w", act, object, name, err)
	}
	return nil
}

// RevokeRolePolicy 撤销授权，本不存在也返回成功
func (s *Service) RevokeRolePolicy(role, object, action string) error {
	name, err := s.roleOp(role)
	if err != nil {
		return err
	}
	act := NormalizeAction(action)
	if act == "" {
		return ErrActionRequired
	}
	if _, err := s.enforcer.RemovePolicy(name, NormalizeObject(object), act); err != nil {
		return fmt.Errorf("authz: revoke %s %s from %s: %w", act, object, name, err)
	}
	return nil
}

// GetRolePolicies 岗位直接持有的策略，不含继承
func (s *Service) GetRolePolicies(role string) ([]Policy, error) {
	name, err := s.roleOp(role)
	if err != nil {
		return nil, err
	}
	return s.policiesOf(name)
}

func (s *Service) policiesOf(subjects ...string) ([]Policy, error) {
	var out []Policy
	for _, subject := range subjects {
		rules, err := s.enforcer.GetFilteredPolicy(0, subject)
		if err != nil {
			return nil, fmt.Errorf("authz: policies of %s: %w", subject, err)
		}
		for _, rule := range rules {
			if len(rule) < 3 {
				continue
			}
			out = append(out, Policy{
				Subject: strings.TrimSpace(rule[0]),
				Object:  NormalizeObject(rule[1]),
				Action:  NormalizeAction(rule[2]),
			})
		}
	}
	slices.SortFunc(out, comparePolicies)
	return slices.CompactFunc(out, func(a, b Policy) bool { return a == b }), nil
}

// SetAdminRoles 用 roles 整体替换员工岗位；名称全部合法才会改动
func (s *Service) SetAdminRoles(adminID uint, roles []string) error {
	if adminID == 0 {
		return ErrAdminRequired
	}
	if err := s.ready(); err != nil {
		return err
	}
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		name, err := NormalizeRole(role)
		if err != nil {
			return err
		}
		names = append(names, name)
	}

	subject := SubjectForAdmin(adminID)
	if _, err := s.enforcer.RemoveFilteredNamedGroupingPolicy(grouping, 0, subject); err != nil {
		return fmt.Errorf("authz: clear roles of %s: %w", subject, err)
	}
	for _, name := range names {
		if _, err := s.EnsureRole(name); err != nil {
			return err
		}
		if err := s.link(subject, name); err != nil {
			return fmt.Errorf("authz: assign %s to %s: %w", name, subject, err)
		}
	}
	return nil
}

// GetAdminRoles 员工岗位，含经继承获得的岗位
func (s *Service) GetAdminRoles(adminID uint) ([]string, error) {
	if adminID == 0 {
		return nil, ErrAdminRequired
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	subject := SubjectForAdmin(adminID)
	linked, err := s.enforcer.GetImplicitRolesForUser(subject)
	if err != nil {
		return nil, fmt.Errorf("authz: roles of %s: %w", subject, err)
	}
	roles := slices.DeleteFunc(linked, func(name string) bool { return !isRoleName(name) })
	slices.Sort(roles)
	return slices.Compact(roles), nil
}

// GetAdminPolicies 员工生效策略：本人直连策略加全部岗位策略，去重排序
func (s *Service) GetAdminPolicies(adminID uint) ([]Policy, error) {
	roles, err := s.GetAdminRoles(adminID)
	if err != nil {
		return nil, err
	}
	return s.policiesOf(append([]string{SubjectForAdmin(adminID)}, roles...)...)
}

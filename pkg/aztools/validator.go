package aztools

import (
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Validator interface {
	Validate(req any) error
}

type DefaultValidator struct {
	validate             *validator.Validate
	enableSecurityPolicy bool
	policy               *SecurityPolicy
}

func NewDefaultValidator(cfg ClientConfig) (*DefaultValidator, error) {
	v := &DefaultValidator{
		validate:             newStructValidator(),
		enableSecurityPolicy: cfg.EnableSecurityPolicy,
	}

	if cfg.EnableSecurityPolicy {
		policy, err := LoadSecurityPolicy(cfg.SecurityPolicyFile)
		if err != nil {
			return nil, err
		}
		v.policy = policy
	}

	return v, nil
}

// newStructValidator reports fields by their tool argument name.
func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("arg"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

func (v *DefaultValidator) Validate(req any) error {
	if err := v.validateArguments(req); err != nil {
		return err
	}

	if v.enableSecurityPolicy {
		if err := v.checkPolicy(req); err != nil {
			return err
		}
	}

	return nil
}

func (v *DefaultValidator) validateArguments(req any) error {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return NewToolError(ErrorTypeInvalidArgument, err.Error(), "")
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return NewToolError(ErrorTypeInvalidArgument, fe.Field()+" cannot be null or empty", fe.Field())
	default:
		return NewToolError(ErrorTypeInvalidArgument, "failed on the '"+fe.Tag()+"' rule", fe.Field())
	}
}

func (v *DefaultValidator) checkPolicy(req any) error {
	if v.policy == nil {
		return nil
	}

	rules := v.policy.Policy
	switch r := req.(type) {
	case *FetchBlobRequest:
		return checkDenied(rules.DeniedContainers, r.Container, "container_name")
	case *QueryLogsRequest:
		return checkDenied(rules.DeniedWorkspaces, r.WorkspaceID, "workspace_id")
	case *StorageEncryptionRequest:
		return checkDenied(rules.DeniedSubscriptions, r.SubscriptionID, "subscription_id")
	}
	return nil
}

func checkDenied(denied []string, value, argument string) error {
	if slices.ContainsFunc(denied, func(d string) bool { return strings.EqualFold(d, value) }) {
		return NewToolError(ErrorTypePolicyDenied, "denied by security policy: "+value, argument)
	}
	return nil
}

func LoadSecurityPolicy(filePath string) (*SecurityPolicy, error) {
	var data []byte

	if filePath == "" {
		data = []byte(DefaultSecurityPolicy)
	} else {
		var err error
		// #nosec G304 - This is the intended behavior: load custom policy file from user-specified path
		data, err = os.ReadFile(filePath)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read policy file")
		}
	}

	var policy SecurityPolicy
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return nil, errors.Wrap(err, "failed to parse policy")
	}

	return &policy, nil
}

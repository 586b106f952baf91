package passes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/diwire/internal/container"
	"github.com/roach88/diwire/internal/discovery"
	"github.com/roach88/diwire/internal/ir"
	"github.com/roach88/diwire/internal/priority"
)

const (
	serviceID = "test_service"
	tagName   = "test_tag"
)

func taggedBuilder() *container.Builder {
	b := container.NewBuilder()
	b.Register(serviceID, "stdClass")
	b.Register("tagged_service_1", "").AddTag(tagName, nil)
	b.Register("tagged_service_2", "").AddTag(tagName, ir.IRObject{"priority": ir.IRInt(-10)})
	b.Register("tagged_service_3", "").AddTag(tagName, ir.IRObject{"priority": ir.IRInt(10)})
	return b
}

func TestWireLocator(t *testing.T) {
	b := taggedBuilder()
	require.NoError(t, WireLocator(b, serviceID, tagName, discovery.IDHandler, false))

	def, err := b.Definition(serviceID)
	require.NoError(t, err)
	require.Len(t, def.Arguments, 2)
	assert.Equal(t, ir.IRArray{
		ir.IRString("tagged_service_3"),
		ir.IRString("tagged_service_1"),
		ir.IRString("tagged_service_2"),
	}, def.Arguments[0])

	locatorRef, ok := def.Arguments[1].(ir.Reference)
	require.True(t, ok)
	locator, err := b.Definition(locatorRef.ID)
	require.NoError(t, err)
	assert.Equal(t, container.LocatorClass, locator.Class)
	assert.Equal(t, ir.IRArray{ir.IRObject{
		"tagged_service_1": ir.NewReference("tagged_service_1"),
		"tagged_service_2": ir.NewReference("tagged_service_2"),
		"tagged_service_3": ir.NewReference("tagged_service_3"),
	}}, locator.Arguments)
}

func TestWireLocatorOptionalAbsentIsNoOp(t *testing.T) {
	b := container.NewBuilder()
	b.Register("tagged_service_1", "").AddTag(tagName, nil)
	before := b.ServiceIDs()

	require.NoError(t, WireLocator(b, serviceID, tagName, discovery.IDHandler, true))
	assert.Equal(t, before, b.ServiceIDs(), "no locator registered")
}

func TestWireLocatorRequiredAbsent(t *testing.T) {
	b := container.NewBuilder()
	b.Register("tagged_service_1", "").AddTag(tagName, nil)

	err := WireLocator(b, serviceID, tagName, discovery.IDHandler, false)
	var unknown *container.UnknownServiceError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, serviceID, unknown.ID)
}

func TestWireLocatorNoTaggedServices(t *testing.T) {
	b := container.NewBuilder()
	b.Register(serviceID, "stdClass")

	require.NoError(t, WireLocator(b, serviceID, tagName, discovery.IDHandler, false))
	def, err := b.Definition(serviceID)
	require.NoError(t, err)
	assert.Equal(t, ir.IRArray{}, def.Arguments[0])
	assert.IsType(t, ir.Reference{}, def.Arguments[1])
}

func TestWireLocatorKeepsOtherArguments(t *testing.T) {
	b := taggedBuilder()
	def, err := b.Definition(serviceID)
	require.NoError(t, err)
	def.Arguments = ir.IRArray{ir.IRNull{}, ir.IRNull{}, ir.IRString("kept")}

	require.NoError(t, WireLocator(b, serviceID, tagName, discovery.IDHandler, false))
	assert.Equal(t, ir.IRString("kept"), def.Arguments[2])
}

func TestWireLocatorHandlerErrorLeavesServiceUntouched(t *testing.T) {
	b := taggedBuilder()
	boom := errors.New("boom")
	err := WireLocator(b, serviceID, tagName, func(ir.IRObject, string, string) (ir.IRValue, error) {
		return nil, boom
	}, false)
	assert.ErrorIs(t, err, boom)

	def, _ := b.Definition(serviceID)
	assert.Empty(t, def.Arguments)
	assert.Len(t, b.ServiceIDs(), 4)
}

func TestLocatorPassAttributesItems(t *testing.T) {
	b := container.NewBuilder()
	b.Register("registry", "app.Registry")
	b.Register("enc.json", "").AddTag("app.encoder", ir.IRObject{"alias": ir.IRString("json"), "priority": ir.IRInt(1)})
	b.Register("enc.xml", "").AddTag("app.encoder", ir.IRObject{"alias": ir.IRString("xml"), "priority": ir.IRInt(5)})

	h, err := ItemsHandler(ir.ItemsSpec{Mode: ir.ItemsAttribute, Attributes: []string{"alias"}})
	require.NoError(t, err)
	p := &PriorityTaggedLocatorPass{Service: "registry", Tag: "app.encoder", Handler: h}
	assert.Equal(t, "locator:registry", PassName(p))
	require.NoError(t, p.Process(b))

	def, _ := b.Definition("registry")
	assert.Equal(t, ir.IRArray{ir.IRString("xml"), ir.IRString("json")}, def.Arguments[0])

	p.Inverse = true
	require.NoError(t, p.Process(b))
	assert.Equal(t, ir.IRArray{ir.IRString("json"), ir.IRString("xml")}, def.Arguments[0])
}

func TestLocatorPassDefaultsToIDs(t *testing.T) {
	b := taggedBuilder()
	p := &PriorityTaggedLocatorPass{Identity: "custom", Service: serviceID, Tag: tagName}
	assert.Equal(t, "custom", PassName(p))
	require.NoError(t, p.Process(b))

	def, _ := b.Definition(serviceID)
	assert.Equal(t, ir.IRString("tagged_service_3"), def.Arguments[0].(ir.IRArray)[0])
}

func TestKeyedLocatorPass(t *testing.T) {
	b := container.NewBuilder()
	b.Register("registry", "app.Registry")
	b.Register("low", "").AddTag("app.encoder", ir.IRObject{"alias": ir.IRString("json"), "priority": ir.IRInt(-10)})
	b.Register("high", "").AddTag("app.encoder", ir.IRObject{"alias": ir.IRString("json"), "priority": ir.IRInt(10)})

	p := &PriorityTaggedKeyedLocatorPass{Service: "registry", Tag: "app.encoder", NameAttribute: "alias"}
	assert.Equal(t, "keyed_locator:registry", PassName(p))
	require.NoError(t, p.Process(b))

	def, _ := b.Definition("registry")
	ref := def.Arguments[0].(ir.Reference)
	locator, _ := b.Definition(ref.ID)
	assert.Equal(t, ir.IRObject{"json": ir.NewReference("high")}, locator.Arguments[0])
}

func TestKeyedLocatorPassMissingAttribute(t *testing.T) {
	b := container.NewBuilder()
	b.Register("registry", "app.Registry")
	b.Register("enc", "").AddTag("app.encoder", nil)

	p := &PriorityTaggedKeyedLocatorPass{Service: "registry", Tag: "app.encoder", NameAttribute: "alias"}
	var missing *priority.MissingAttributeError
	require.ErrorAs(t, p.Process(b), &missing)
	assert.Equal(t, "enc", missing.ServiceID)
}

func TestKeyedLocatorPassOptional(t *testing.T) {
	b := container.NewBuilder()
	p := &PriorityTaggedKeyedLocatorPass{Service: "registry", Tag: "t", NameAttribute: "alias", Optional: true}
	require.NoError(t, p.Process(b))
	assert.Empty(t, b.ServiceIDs())

	p.Optional = false
	var unknown *container.UnknownServiceError
	assert.ErrorAs(t, p.Process(b), &unknown)
}

func TestAddMethodPass(t *testing.T) {
	b := taggedBuilder()
	p := &PriorityTaggedAddMethodPass{Service: serviceID, Method: "addTaggedService", Tag: tagName}
	require.NoError(t, p.Process(b))

	def, _ := b.Definition(serviceID)
	assert.Equal(t, []ir.MethodCall{
		{Method: "addTaggedService", Arguments: ir.IRArray{ir.NewReference("tagged_service_3")}},
		{Method: "addTaggedService", Arguments: ir.IRArray{ir.NewReference("tagged_service_1")}},
		{Method: "addTaggedService", Arguments: ir.IRArray{ir.NewReference("tagged_service_2")}},
	}, def.MethodCalls)
}

func TestAddMethodPassNoTaggedServices(t *testing.T) {
	b := container.NewBuilder()
	b.Register(serviceID, "stdClass")
	p := &PriorityTaggedAddMethodPass{Service: serviceID, Method: "addTaggedService", Tag: tagName}
	require.NoError(t, p.Process(b))

	def, _ := b.Definition(serviceID)
	assert.Empty(t, def.MethodCalls)
}

func TestAddMethodPassAbsentService(t *testing.T) {
	b := container.NewBuilder()
	b.Register("tagged_service_1", "").AddTag(tagName, nil)

	required := &PriorityTaggedAddMethodPass{Service: serviceID, Method: "addTaggedService", Tag: tagName}
	var unknown *container.UnknownServiceError
	assert.ErrorAs(t, required.Process(b), &unknown)

	optional := &PriorityTaggedAddMethodPass{Service: serviceID, Method: "addTaggedService", Tag: tagName, Optional: true}
	assert.NoError(t, optional.Process(b))
}

func TestItemsHandlerErrors(t *testing.T) {
	_, err := ItemsHandler(ir.ItemsSpec{Mode: "bogus"})
	assert.Error(t, err)

	_, err = ItemsHandler(ir.ItemsSpec{Mode: ir.ItemsAttribute})
	assert.Error(t, err)
}

func TestNewWiringPass(t *testing.T) {
	p, err := NewWiringPass(ir.WiringSpec{Kind: ir.WiringAddMethod, Service: "s", Method: "add", Tag: "t"})
	require.NoError(t, err)
	assert.Equal(t, "add_method:s", PassName(p))

	p, err = NewWiringPass(ir.WiringSpec{Name: "mine", Kind: ir.WiringKeyedLocator, Service: "s", Tag: "t", NameAttribute: "k"})
	require.NoError(t, err)
	assert.Equal(t, "mine", PassName(p))

	p, err = NewWiringPass(ir.WiringSpec{Kind: ir.WiringLocator, Service: "s", Tag: "t", Items: ir.ItemsSpec{Mode: ir.ItemsReference}})
	require.NoError(t, err)
	assert.IsType(t, &PriorityTaggedLocatorPass{}, p)

	_, err = NewWiringPass(ir.WiringSpec{Kind: "nope"})
	assert.Error(t, err)
}
